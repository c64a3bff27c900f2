package constants

const (
	MsgNoDataLoaded     = "No dataset loaded. Upload a workbook first"
	MsgNoFileProvided   = "No file provided"
	MsgInvalidFileType  = "Invalid file type. Please upload a .xlsx workbook"
	MsgInvalidGroupKey  = "Unknown group key"
	MsgInvalidFilter    = "Invalid filter"
	MsgLoadFailed       = "Unable to process workbook"
	MsgCacheUnavailable = "Snapshot cache unavailable"
)
