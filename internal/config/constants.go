package config

const SourceFileExt = ".phylo"

// SourceFileExtensions are all recognized source file extensions
var SourceFileExtensions = []string{".phylo", ".ps"}

// SettingsFileName is looked up in the working directory by the CLI.
const SettingsFileName = "phylostack.yaml"

// Numeric tolerances
const (
	// SimplexTolerance bounds |sum - 1| for frequency vectors.
	SimplexTolerance = 1e-10
	// MinCategoryRate is the floor for discrete-gamma category rates.
	MinCategoryRate = 1e-10
)

// MaxCallDepth is the default bound on nested user-function calls.
// Zero disables the bound.
const MaxCallDepth = 4096

// ExportVersion is the schema version written by the exporter.
const ExportVersion = "1.0"
