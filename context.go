package clientdesk

import "context"

type ctxKey string

const (
	ctxKeyUserID ctxKey = "clientdesk_user_id"
	ctxKeyRole   ctxKey = "clientdesk_role"
)

// WithUserID stores the authenticated user id in the context.
func WithUserID(ctx context.Context, userID int) context.Context {
	return context.WithValue(ctx, ctxKeyUserID, userID)
}

// UserIDFromContext extracts the authenticated user id from the context,
// zero when absent.
func UserIDFromContext(ctx context.Context) int {
	v, _ := ctx.Value(ctxKeyUserID).(int)
	return v
}

// WithRole stores the user's role in the context.
func WithRole(ctx context.Context, role RoleID) context.Context {
	return context.WithValue(ctx, ctxKeyRole, role)
}

// RoleFromContext extracts the user's role from the context, zero when absent.
func RoleFromContext(ctx context.Context) RoleID {
	v, _ := ctx.Value(ctxKeyRole).(RoleID)
	return v
}
