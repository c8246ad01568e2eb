package schema

// Custom string types for type safety.
type (
	// CapacityState is the closed set of self-reported capacity levels.
	CapacityState string

	// Category is a fixed signal category used by pattern detection.
	Category string

	// GapCategory classifies the length of an absence between signals.
	GapCategory string

	// PatternType identifies which detector produced a pattern.
	PatternType string

	// ExperimentStatus is the lifecycle state of an experiment.
	ExperimentStatus string

	// FollowedStatus records whether an experiment was followed on a given day.
	FollowedStatus string

	// Direction is the sign of an observed correlation.
	Direction string

	// OutputMode represents the format of the output.
	OutputMode string

	// DatabaseBackend represents the database backend for the key/value store.
	DatabaseBackend string
)

// All capacity states supported.
const (
	HighState CapacityState = "high"
	MidState  CapacityState = "mid"
	LowState  CapacityState = "low"
)

// All categories supported, in iteration order.
const (
	SensoryCategory Category = "sensory"
	DemandCategory  Category = "demand"
	SocialCategory  Category = "social"
)

// All gap categories supported.
const (
	ShortGap    GapCategory = "short"    // under 4 days
	MediumGap   GapCategory = "medium"   // 4 to 14 days
	ExtendedGap GapCategory = "extended" // 15 days or more
)

// All pattern types supported.
const (
	DayOfWeekPattern            PatternType = "day_of_week"
	CategorySensoryPattern      PatternType = "category_sensory"
	CategoryDemandPattern       PatternType = "category_demand"
	CategorySocialPattern       PatternType = "category_social"
	ConsecutiveDepletionPattern PatternType = "consecutive_depletion"
)

// All experiment statuses supported.
const (
	ActiveExperiment    ExperimentStatus = "active"
	ConcludedExperiment ExperimentStatus = "concluded"
	AbandonedExperiment ExperimentStatus = "abandoned"
)

// All followed statuses supported. An unset value is represented by a nil pointer.
const (
	FollowedYes     FollowedStatus = "yes"
	FollowedNo      FollowedStatus = "no"
	FollowedSkipped FollowedStatus = "skipped"
)

// All correlation directions supported.
const (
	PositiveDirection Direction = "positive"
	NegativeDirection Direction = "negative"
	NoDirection       Direction = "none"
)

// All output modes supported.
const (
	TextOut OutputMode = "text" // default
	JSONOut OutputMode = "json"
	CSVOut  OutputMode = "csv"
	YAMLOut OutputMode = "yaml"
)

// All store backends supported.
const (
	SQLiteBackend     DatabaseBackend = "sqlite" // default
	MySQLBackend      DatabaseBackend = "mysql"
	PostgreSQLBackend DatabaseBackend = "postgresql"
	MemoryBackend     DatabaseBackend = "memory"
	NoneBackend       DatabaseBackend = "none"
)

// AllCategories lists the categories in detector iteration order.
var AllCategories = []Category{SensoryCategory, DemandCategory, SocialCategory}

// AllGapCategories lists the gap categories from shortest to longest.
var AllGapCategories = []GapCategory{ShortGap, MediumGap, ExtendedGap}

// AllPatternTypes lists every pattern type.
var AllPatternTypes = []PatternType{
	DayOfWeekPattern,
	CategorySensoryPattern,
	CategoryDemandPattern,
	CategorySocialPattern,
	ConsecutiveDepletionPattern,
}

// ValidCapacityStates lists all valid capacity states.
var ValidCapacityStates = map[CapacityState]struct{}{
	HighState: {},
	MidState:  {},
	LowState:  {},
}

// ValidCategories lists all valid categories.
var ValidCategories = map[Category]struct{}{
	SensoryCategory: {},
	DemandCategory:  {},
	SocialCategory:  {},
}

// ValidPatternTypes lists all valid pattern types.
var ValidPatternTypes = map[PatternType]struct{}{
	DayOfWeekPattern:            {},
	CategorySensoryPattern:      {},
	CategoryDemandPattern:       {},
	CategorySocialPattern:       {},
	ConsecutiveDepletionPattern: {},
}

// ValidFollowedStatuses lists all valid followed statuses.
var ValidFollowedStatuses = map[FollowedStatus]struct{}{
	FollowedYes:     {},
	FollowedNo:      {},
	FollowedSkipped: {},
}

// ValidOutputModes lists all valid output modes.
var ValidOutputModes = map[OutputMode]struct{}{
	TextOut: {},
	JSONOut: {},
	CSVOut:  {},
	YAMLOut: {},
}

// ValidDatabaseBackends lists all valid store backends.
var ValidDatabaseBackends = map[DatabaseBackend]struct{}{
	SQLiteBackend:     {},
	MySQLBackend:      {},
	PostgreSQLBackend: {},
	MemoryBackend:     {},
	NoneBackend:       {},
}

// CategoryPatternTypes maps each category to its pattern type.
var CategoryPatternTypes = map[Category]PatternType{
	SensoryCategory: CategorySensoryPattern,
	DemandCategory:  CategoryDemandPattern,
	SocialCategory:  CategorySocialPattern,
}
