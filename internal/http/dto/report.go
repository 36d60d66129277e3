package dto

const (
	ReportFormatJSON     = "json"
	ReportFormatMarkdown = "markdown"
	ReportFormatHTML     = "html"
)

type ReportQuery struct {
	Format  string `form:"format" binding:"omitempty,oneof=json markdown html"`
	Details bool   `form:"details"`
}
