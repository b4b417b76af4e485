package contextkeys

type contextKey string

// DBContextKey holds the *gorm.DB (pool or transaction) for the current request.
const DBContextKey = contextKey("db")

// Keys set on the gin context by the token middleware.
const (
	UserIDKey = "userID"
	RoleKey   = "role"
)
