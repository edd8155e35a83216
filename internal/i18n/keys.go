// internal/i18n/keys.go
package i18n

// Translation keys constants
const (
	// Errors returned at the HTTP boundary
	KeyErrorInvalidParams = "error.invalid_params"
	KeyErrorInternal      = "error.internal"

	// Authentication
	KeyAuthRequired           = "auth.required"
	KeyAuthInvalidToken       = "auth.invalid_token"
	KeyAuthTokenExpired       = "auth.token_expired"
	KeyAuthInvalidCredentials = "auth.invalid_credentials"
	KeyAuthUserExists         = "auth.user_exists"
	KeyAuthLoginSuccess       = "auth.login_success"
	KeyAuthRegisterSuccess    = "auth.register_success"
	KeyAdminAccessDenied      = "admin.access_denied"

	// Validation
	KeyValidationInvalid = "validation.invalid"

	// Users
	KeyUserNotFound       = "user.not_found"
	KeyUserStatusUpdated  = "user.status_updated"
	KeyUserProfileUpdated = "user.profile_updated"

	// Items
	KeyItemCreated         = "item.created"
	KeyItemUpdated         = "item.updated"
	KeyItemDeleted         = "item.deleted"
	KeyItemNotFound        = "item.not_found"
	KeyItemLocationSet     = "item.location_set"
	KeyItemNotForSale      = "item.not_for_sale"
	KeyItemAlreadySold     = "item.already_sold"
	KeyItemImagesUploaded  = "item.images_uploaded"
	KeyItemPriceRequired   = "item.price_required"
	KeyItemPriceNotAllowed = "item.price_not_allowed"

	// Materials
	KeyMaterialCreated  = "material.created"
	KeyMaterialUpdated  = "material.updated"
	KeyMaterialNotFound = "material.not_found"

	// Organizations
	KeyOrganizationCreated  = "organization.created"
	KeyOrganizationUpdated  = "organization.updated"
	KeyOrganizationNotFound = "organization.not_found"

	// Checkout
	KeyCheckoutCreated   = "checkout.created"
	KeyCheckoutConfirmed = "checkout.confirmed"
	KeyCheckoutNotFound  = "checkout.not_found"

	// Uploads
	KeyFileUploadSuccess = "file.upload_success"
	KeyFileUploadFailed  = "file.upload_failed"
)
