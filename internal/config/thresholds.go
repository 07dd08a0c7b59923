package config

const (
	// Flagging. A message is force-deleted once the distinct flaggers reach
	// FlagDeleteFraction of the chat's membership. An author whose messages
	// have been force-deleted DisableAuthorThreshold times is disabled.
	FlagDeleteFraction     = 0.10
	DisableAuthorThreshold = 5

	// Pagination. Limits outside [PageLimitMin, PageLimitMax] are a
	// validation error on the requesting field.
	PageLimitDefault = 20
	PageLimitMin     = 1
	PageLimitMax     = 100

	// Usernames
	UsernameMinLen = 3
	UsernameMaxLen = 64
)
