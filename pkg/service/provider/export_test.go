package provider

var (
	ErrorMessage = errorMessage
	Truncate     = truncate
)
