package errors

// Error code constants.
// Format: CATEGORY_SPECIFIC_DETAIL
// Clients map these codes to localized messages.

const (
	// ==================== Authentication (AUTH_) ====================
	AuthUnauthorized       = "AUTH_UNAUTHORIZED"        // login required
	AuthInvalidCredentials = "AUTH_INVALID_CREDENTIALS" // wrong email/password
	AuthTokenExpired       = "AUTH_TOKEN_EXPIRED"       // token expired
	AuthTokenInvalid       = "AUTH_TOKEN_INVALID"       // malformed token
	AuthTokenRevoked       = "AUTH_TOKEN_REVOKED"       // token blacklisted
	AuthEmailAlreadyExists = "AUTH_EMAIL_EXISTS"        // duplicate email

	// ==================== Authorization (AUTHZ_) ====================
	AuthzForbidden = "AUTHZ_FORBIDDEN"  // no access
	AuthzAdminOnly = "AUTHZ_ADMIN_ONLY" // admin only
	AuthzOwnerOnly = "AUTHZ_OWNER_ONLY" // owner only

	// ==================== Validation (VALIDATION_) ====================
	ValidationInvalidInput  = "VALIDATION_INVALID_INPUT"  // bad input
	ValidationInvalidID     = "VALIDATION_INVALID_ID"     // bad id
	ValidationInvalidFormat = "VALIDATION_INVALID_FORMAT" // bad format
	ValidationInvalidRange  = "VALIDATION_INVALID_RANGE"  // out of range
	ValidationRequired      = "VALIDATION_REQUIRED"       // missing field

	// ==================== Resources (RESOURCE_) ====================
	ResourceNotFound      = "RESOURCE_NOT_FOUND"      // resource missing
	ResourceAlreadyExists = "RESOURCE_ALREADY_EXISTS" // already exists
	ResourceConflict      = "RESOURCE_CONFLICT"       // conflict

	// ==================== Products (PRODUCT_) ====================
	ProductNotFound    = "PRODUCT_NOT_FOUND"    // product missing
	ProductInvalidSize = "PRODUCT_INVALID_SIZE" // size not offered
	ProductUnavailable = "PRODUCT_UNAVAILABLE"  // no longer purchasable

	// ==================== Cart (CART_) ====================
	CartItemNotFound     = "CART_ITEM_NOT_FOUND"     // cart row missing
	CartEmpty            = "CART_EMPTY"              // nothing to order
	CartInvalidQuantity  = "CART_INVALID_QUANTITY"   // quantity out of range
	CartGuestNotFound    = "CART_GUEST_NOT_FOUND"    // guest cart missing
	CartSyncPartialError = "CART_SYNC_PARTIAL_ERROR" // some guest items rejected

	// ==================== Orders (ORDER_) ====================
	OrderNotFound     = "ORDER_NOT_FOUND"     // order missing
	OrderCreateFailed = "ORDER_CREATE_FAILED" // creation failed
	OrderAddressEmpty = "ORDER_ADDRESS_EMPTY" // shipping address required

	// ==================== Uploads (UPLOAD_) ====================
	UploadInvalidFileType = "UPLOAD_INVALID_FILE_TYPE" // bad file type
	UploadFailed          = "UPLOAD_FAILED"            // upload failed

	// ==================== Internal (INTERNAL_) ====================
	InternalServerError   = "INTERNAL_SERVER_ERROR"   // server error
	InternalDatabaseError = "INTERNAL_DATABASE_ERROR" // db error
	InternalExternalAPI   = "INTERNAL_EXTERNAL_API"   // external API error
)
