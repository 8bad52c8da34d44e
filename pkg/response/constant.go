package response

const (
	MessageSuccess          = "Success"
	DefaultErrorMessage     = "Something went wrong"
	InternalServerErrorCode = 500

	TooManyRequestsCode    = 429
	TooManyRequestsMessage = "Too many requests"

	ServiceUnavailableCode    = 503
	ServiceUnavailableMessage = "Service is busy, retry later"
)
