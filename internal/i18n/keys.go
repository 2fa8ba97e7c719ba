// internal/i18n/keys.go
package i18n

// Translation keys constants
const (
	// Common
	KeySuccess = "success"
	KeyError   = "error"

	// Authentication
	KeyAuthRequired           = "auth.required"
	KeyAuthInvalidToken       = "auth.invalid_token"
	KeyAuthInvalidCredentials = "auth.invalid_credentials"
	KeyAuthUserExists         = "auth.user_exists"
	KeyAuthLoginSuccess       = "auth.login_success"
	KeyAuthRegisterSuccess    = "auth.register_success"

	// Users
	KeyUserNotFound = "user.not_found"

	// Cards
	KeyCardCreated       = "card.created"
	KeyCardUpdated       = "card.updated"
	KeyCardDeleted       = "card.deleted"
	KeyCardNotFound      = "card.not_found"
	KeyCardPricesUpdated = "card.prices_updated"
	KeyCardNoPrices      = "card.no_prices"

	// Cart and wishlist
	KeyCartItemAdded    = "cart.item_added"
	KeyCartItemRemoved  = "cart.item_removed"
	KeyCartItemNotFound = "cart.not_found"
	KeyCartEmpty        = "cart.empty"
	KeyWishlistAdded    = "wishlist.added"
	KeyWishlistRemoved  = "wishlist.removed"
	KeyWishlistNotFound = "wishlist.not_found"

	// Orders
	KeyOrderCreated       = "order.created"
	KeyOrderNotFound      = "order.not_found"
	KeyOrderStatusUpdated = "order.status_updated"
	KeyOrderInvalidStatus = "order.invalid_status"

	// Payments
	KeyPaymentFailed = "payment.failed"

	// Admin
	KeyAdminAccessDenied = "admin.access_denied"

	// Validation
	KeyValidationRequired = "validation.required"
	KeyValidationInvalid  = "validation.invalid"

	// File Upload
	KeyFileUploadSuccess = "file.upload_success"
	KeyFileUploadFailed  = "file.upload_failed"
	KeyFileInvalidType   = "file.invalid_type"

	// Search
	KeySearchNoResults = "search.no_results"

	// Rate limiting
	KeyRateLimitExceeded = "rate_limit.exceeded"
)
