package handler

const (
	jsonKeyError   = "error"
	jsonKeyMessage = "message"

	paramID = "id"

	queryPage     = "page"
	queryLimit    = "limit"
	querySearch   = "search"
	queryRole     = "role"
	queryStatus   = "status"
	queryCategory = "category"
	queryUserID   = "user_id"
)

const (
	msgInvalidCredentials      = "invalid email or password"
	msgNotAuthenticated        = "user not authenticated"
	msgEmailAlreadyExists      = "email already exists"
	msgPasswordProcessFail     = "failed to process password"
	msgGenerateTokenFail       = "failed to generate token"
	msgCreateAccountFail       = "failed to create account"
	msgLoggedOut               = "logged out"
	msgUserNotFound            = "user not found"
	msgProductNotFound         = "product not found"
	msgOrderNotFound           = "order not found"
	msgUserDeleted             = "user deleted"
	msgProductDeleted          = "product deleted"
	msgInvalidID               = "invalid id"
	msgInvalidRole             = "invalid role"
	msgInvalidStatus           = "invalid status"
	msgInvalidRequestBody      = "invalid request body"
	msgContentTypeJSONRequired = "Content-Type must be application/json"
	msgOrderItemsRequired      = "order must contain at least one item"
	msgInvalidQuantity         = "item quantity must be positive"
	msgMediaNotConfigured      = "media storage is not configured"
	msgContentTypeRequired     = "content_type is required"
)
