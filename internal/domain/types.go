package domain

type Role string

const (
	RoleCitizen Role = "CITIZEN"
	RoleRTAdmin Role = "RT_ADMIN"
)

type ReportStatus string

const (
	ReportStatusPending    ReportStatus = "PENDING"
	ReportStatusInProgress ReportStatus = "IN_PROGRESS"
	ReportStatusResolved   ReportStatus = "RESOLVED"
	ReportStatusRejected   ReportStatus = "REJECTED"
	ReportStatusClosed     ReportStatus = "CLOSED"
)

type ReportCategory string

const (
	ReportCategoryInfrastructure ReportCategory = "INFRASTRUCTURE"
	ReportCategoryCleanliness    ReportCategory = "CLEANLINESS"
	ReportCategoryLighting       ReportCategory = "LIGHTING"
	ReportCategorySecurity       ReportCategory = "SECURITY"
	ReportCategoryUtilities      ReportCategory = "UTILITIES"
	ReportCategoryEnvironment    ReportCategory = "ENVIRONMENT"
	ReportCategorySuggestion     ReportCategory = "SUGGESTION"
	ReportCategoryOther          ReportCategory = "OTHER"
)

type Visibility string

const (
	VisibilityPublic  Visibility = "public"
	VisibilityPrivate Visibility = "private"
)

// MaxMessageLength bounds the text of a single chat message, in runes.
const MaxMessageLength = 2000
