package config

// ConfigFileName is the binder configuration file looked up by FindConfig.
const ConfigFileName = "dynconv.yaml"

// ConfigFileNames are all recognized configuration file names
var ConfigFileNames = []string{"dynconv.yaml", "dynconv.yml"}

// Version is reported by the CLI.
// Can be set at build time using: -ldflags "-X github.com/funvibe/dynconv/internal/config.Version=..."
var Version = "dev"

// Predeclared type names
const (
	ObjectTypeName  = "Object"
	NullTypeName    = "Null"
	BoolTypeName    = "Bool"
	CharTypeName    = "Char"
	StringTypeName  = "String"
	Int8TypeName    = "Int8"
	UInt8TypeName   = "UInt8"
	Int16TypeName   = "Int16"
	UInt16TypeName  = "UInt16"
	Int32TypeName   = "Int32"
	UInt32TypeName  = "UInt32"
	Int64TypeName   = "Int64"
	UInt64TypeName  = "UInt64"
	Float32TypeName = "Float32"
	Float64TypeName = "Float64"
	HostTypeName    = "HostObject"
)

// ArraySuffix marks an array type name (e.g. "Int32[]").
const ArraySuffix = "[]"

// Call-site cache defaults
const (
	// DefaultPolymorphicLimit is the number of rules a call site keeps
	// before it turns megamorphic.
	DefaultPolymorphicLimit = 4

	// DefaultMetricName is the gmetric operation name of a binder.
	DefaultMetricName = "dynconv.bind"
)

// LogPrefix is prepended to verbose binder output.
const LogPrefix = "[bind] "
