package common

const (
	// AccessTokenHeaderName is the gRPC metadata key used to carry the
	// access token on outbound requests.
	AccessTokenHeaderName = "access_token"

	// IdempotencyKeyHeaderName carries the pending record key on replayed
	// creations so the remote side can drop duplicates.
	IdempotencyKeyHeaderName = "Idempotency-Key"

	// TenantHeaderName selects the remote tenant.
	TenantHeaderName = "Fineract-Platform-TenantId"
)
