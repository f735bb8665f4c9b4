package version

// NodeSemVer is the canonical semantic version of the trinity node.
// It is set at build time via -ldflags.
var NodeSemVer = "0.1.0-dev"
