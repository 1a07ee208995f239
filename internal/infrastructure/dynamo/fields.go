package dynamo

// DynamoDB attribute names used in update and condition expressions across
// all repos. Using constants prevents silent runtime bugs caused by key typos.
const (
	fieldIdentity  = "identity"
	fieldStatus    = "status"
	fieldLastLogin = "last_login"
	fieldCreatedAt = "created_at"
)
