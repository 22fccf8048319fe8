// Package common contains shared constants and sentinel values used across
// arcadmin components.
package common

// RequestIDHeaderName is the HTTP header carrying the per-request
// correlation id attached by the API client.
const RequestIDHeaderName = "X-Request-Id"

// RecipientNameVariable is the reserved template variable key that can be
// switched into dynamic per-recipient mode in the compose flow.
const RecipientNameVariable = "recipientName"

// DynamicNamePlaceholder is the literal bound to the recipient-name variable
// while dynamic personalization is enabled. Previews render it verbatim; the
// server substitutes each recipient's own name at send time.
const DynamicNamePlaceholder = "[DYNAMIC_NAME]"
