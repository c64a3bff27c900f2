package constants

type (
	APIStatus   string
	CachePrefix string
	GroupKey    string
)

const (
	APIStatusOk    APIStatus = "ok"
	APIStatusError APIStatus = "error"

	CachePrefixSummary   CachePrefix = "SUMMARY_"
	CachePrefixBreakdown CachePrefix = "BREAKDOWN_"
	CachePrefixKPI       CachePrefix = "KPI_"
	CachePrefixTrend     CachePrefix = "TREND_"
)

// Group keys accepted by the breakdown endpoints.
const (
	GroupByCategory GroupKey = "category"
	GroupByModel    GroupKey = "model"
	GroupByPrefix   GroupKey = "prefix"
	GroupByRoute    GroupKey = "route"
	GroupByMonth    GroupKey = "month"
	GroupByWeekday  GroupKey = "weekday"
	GroupByHour     GroupKey = "hour"
	GroupByClient   GroupKey = "client"
)

var GroupKeys = []GroupKey{
	GroupByCategory,
	GroupByModel,
	GroupByPrefix,
	GroupByRoute,
	GroupByMonth,
	GroupByWeekday,
	GroupByHour,
	GroupByClient,
}

func (g GroupKey) Valid() bool {
	for _, k := range GroupKeys {
		if g == k {
			return true
		}
	}
	return false
}

// MonthNames are the short labels used by chart series, January first.
var MonthNames = []string{
	"Jan", "Feb", "Mar", "Apr", "May", "Jun",
	"Jul", "Aug", "Sep", "Oct", "Nov", "Dec",
}

// MonthName returns the short label for a 1-12 month, or "" out of range.
func MonthName(m int) string {
	if m < 1 || m > 12 {
		return ""
	}
	return MonthNames[m-1]
}

// ProductiveHoursPerDay is the assumed daily availability of one airframe,
// used by the idle/utilization analysis.
const ProductiveHoursPerDay = 8.0
