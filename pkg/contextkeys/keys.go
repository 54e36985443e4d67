package contextkeys

type contextKey string

// DBContextKey - ключ, по которому *gorm.DB лежит в gin.Context
const DBContextKey = contextKey("db")

// UserIDKey и StaffKey выставляет AuthMiddleware
const (
	UserIDKey = contextKey("userID")
	StaffKey  = contextKey("isStaff")
)
