package configuration

type Strategy string

const (
	StrategyIntelligent Strategy = "intelligent"
	StrategyStatic      Strategy = "static"
	StrategyUserDefined Strategy = "user_defined"
)

// ScalingMode declares how a resource dimension grows with the retry attempt.
type ScalingMode string

const (
	// ScalingAttempt multiplies the base value by the (capped) attempt number.
	ScalingAttempt ScalingMode = "attempt"
	// ScalingFixed requests the same value on every attempt.
	ScalingFixed ScalingMode = "fixed"
)

type ExecutorName string

const (
	ExecutorLocal ExecutorName = "local"
	ExecutorSlurm ExecutorName = "slurm"
)

// Configuration is the static configuration of the decision engine. It is loaded once at
// startup and treated as read-only afterwards.
type Configuration struct {
	// Log level, e.g. info or debug
	LogLevel   string
	Scaling    ScalingConfig
	Partitions PartitionConfig
	Submission SubmissionConfig
	Executor   ExecutorConfig
	// External data (reference databases etc.) the pipeline needs.
	Databases  []DatabaseConfig
	Validation ValidationConfig
}

type ScalingConfig struct {
	// Hard ceilings applied after scaling. Memory and time are strings so that unparseable
	// values can be reported by validation rather than failing the config load.
	MaxCpus   int
	MaxMemory string
	MaxTime   string
	// Attempt numbers above this stop growing resources.
	MaxRetryScaling int
	// Resource policy per resource class label.
	Classes map[string]ClassPolicy
	// Used for classes that have no entry in Classes.
	Defaults ClassPolicy
}

// ClassPolicy holds base values and scaling rules for one resource class.
type ClassPolicy struct {
	Cpus         int
	Memory       string
	Time         string
	CpuFactor    float64
	MemoryFactor float64
	TimeFactor   float64
	// How each dimension scales with the attempt. Left empty the dimension scales with the
	// attempt, but validation flags the missing declaration.
	CpuScaling    ScalingMode
	MemoryScaling ScalingMode
	TimeScaling   ScalingMode
}

type PartitionConfig struct {
	Strategy Strategy
	// Backend partition name per role, e.g. bigmem: "highmem".
	Partitions       map[string]string
	DefaultPartition string
	// Ordered fallback roles per role.
	Fallbacks map[string][]string
	// Role per resource class label, used by the user_defined strategy.
	CustomMapping map[string]string
	// Partitions known to be drained or offline; fallback resolution skips them.
	UnavailablePartitions []string
	Thresholds            ThresholdConfig
}

type ThresholdConfig struct {
	// Jobs requesting strictly more memory than this are routed to bigmem.
	BigmemMemory string
	// Jobs no longer than QuickTime and no larger than QuickMemory are routed to quick.
	QuickTime   string
	QuickMemory string
	// Labels always treated as GPU work.
	GpuLabels []string
}

type SubmissionConfig struct {
	// Bigmem jobs requesting more memory than this get the whole node.
	ExclusiveMemoryThreshold string
	// Accelerator type, e.g. "a100". Empty requests any gpu.
	GpuType string
	// Node feature identifying the gpu memory tier, e.g. "gpu_80gb".
	GpuMemoryTier string
	// Minimum memory per cpu requested for memory intensive classes.
	MemPerCpuFloor string
	Nice           int
	QuickQos       string
	// Passed to the backend verbatim after the generated options.
	ClusterOptions []string
}

type ExecutorConfig struct {
	Name ExecutorName `validate:"required,oneof=local slurm"`
	// Cpus available to the local executor. Zero means the cpus of the current host.
	HostCpus int `validate:"gte=0"`
}

type DatabaseConfig struct {
	Name     string `validate:"required"`
	Path     string `validate:"required"`
	Required bool
}

type ValidationConfig struct {
	// Promotes missing attempt scaling declarations from warnings to errors.
	StrictValidation bool
	// When false the fallback resolver returns the selected partition unchecked.
	EnablePartitionValidation bool
	// Classes that must have a resource policy. Defaults to the built-in classes.
	RequiredClasses []string
}
