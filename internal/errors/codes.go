package errors

// Error code constants returned in the JSON error envelope.
// Format: CATEGORY_SPECIFIC_DETAIL. Clients map these to display messages.

const (
	// ==================== Auth (AUTH_) ====================
	AuthUnauthorized = "AUTH_UNAUTHORIZED"
	AuthTokenExpired = "AUTH_TOKEN_EXPIRED"
	AuthTokenInvalid = "AUTH_TOKEN_INVALID"

	// ==================== Authorization (AUTHZ_) ====================
	AuthzForbidden     = "AUTHZ_FORBIDDEN"
	AuthzModeratorOnly = "AUTHZ_MODERATOR_ONLY"
	AuthzOwnerOnly     = "AUTHZ_OWNER_ONLY"

	// ==================== Validation (VALIDATION_) ====================
	ValidationInvalidInput  = "VALIDATION_INVALID_INPUT"
	ValidationInvalidID     = "VALIDATION_INVALID_ID"
	ValidationInvalidCursor = "VALIDATION_INVALID_CURSOR"
	ValidationRequired      = "VALIDATION_REQUIRED"

	// ==================== Resources (RESOURCE_) ====================
	ResourceNotFound      = "RESOURCE_NOT_FOUND"
	ResourceAlreadyExists = "RESOURCE_ALREADY_EXISTS"
	ResourceConflict      = "RESOURCE_CONFLICT"

	// ==================== Categories (CATEGORY_) ====================
	CategoryNotFound      = "CATEGORY_NOT_FOUND"
	CategoryDuplicatePath = "CATEGORY_DUPLICATE_PATH"
	CategoryMissingParent = "CATEGORY_MISSING_PARENT"
	CategoryInvalidNames  = "CATEGORY_INVALID_NAMES"

	// ==================== Stores (STORE_) ====================
	StoreNotFound = "STORE_NOT_FOUND"

	// ==================== Users (USER_) ====================
	UserNotFound          = "USER_NOT_FOUND"
	UserDuplicateIdentity = "USER_DUPLICATE_IDENTITY"

	// ==================== Deals (DEAL_) ====================
	DealNotFound          = "DEAL_NOT_FOUND"
	DealInvalidPrice      = "DEAL_INVALID_PRICE"
	DealInvalidVote       = "DEAL_INVALID_VOTE"
	DealIllegalTransition = "DEAL_ILLEGAL_TRANSITION"
	DealDanglingReference = "DEAL_DANGLING_REFERENCE"

	// ==================== Concurrency (LOCK_) ====================
	LockTimeout      = "LOCK_TIMEOUT" // retryable
	RequestCancelled = "REQUEST_CANCELLED"

	// ==================== Internal (INTERNAL_) ====================
	InternalServerError   = "INTERNAL_SERVER_ERROR"
	InternalDatabaseError = "INTERNAL_DATABASE_ERROR"
)
