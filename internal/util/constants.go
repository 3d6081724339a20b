package util

const DateFormat = "2006-01-02"

const (
	StorageLocal = "local"
	StorageMinio = "minio"
	StorageOSS   = "oss"
)

const (
	ExportCSV  = "CSV"
	ExportJSON = "JSON"
)

const (
	MimeCSV  = "text/csv"
	MimeJSON = "application/json"
)

const MaxPageSize = 100
