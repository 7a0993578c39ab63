package cli

// Export internal functions for testing.

// RunConfigSet exports runConfigSet for testing.
var RunConfigSet = runConfigSet

// RunConfigGet exports runConfigGet for testing.
var RunConfigGet = runConfigGet

// RunConfigList exports runConfigList for testing.
var RunConfigList = runConfigList

// DeriveOutputPath exports deriveOutputPath for testing.
var DeriveOutputPath = deriveOutputPath

// RunIdeas exports runIdeas for testing.
var RunIdeas = runIdeas

// RunScript exports runScript for testing.
var RunScript = runScript

// RunRevise exports runRevise for testing.
var RunRevise = runRevise

// RunServe exports runServe for testing.
var RunServe = runServe

// ResolveBackend exports resolveBackend for testing.
var ResolveBackend = resolveBackend

// FormatIdeas exports formatIdeas for testing.
var FormatIdeas = formatIdeas
