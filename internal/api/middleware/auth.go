package middleware

import (
	"context"
	"net/http"
	"strconv"

	"github.com/Mahmoudzaineldeen/booktifi-supabase-sub017/internal/api/handlers"
)

// TenantIDHeader заголовок с ID тенанта, проставляется API-шлюзом
const TenantIDHeader = "X-Tenant-ID"

type contextKey string

const tenantIDKey contextKey = "tenantID"

// Auth middleware извлекает ID тенанта из заголовка и кладет его в контекст.
// Запросы без валидного заголовка отклоняются
func Auth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw := r.Header.Get(TenantIDHeader)
		if raw == "" {
			handlers.RespondUnauthorized(w, "missing tenant id header")
			return
		}

		tenantID, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || tenantID <= 0 {
			handlers.RespondUnauthorized(w, "invalid tenant id header")
			return
		}

		ctx := context.WithValue(r.Context(), tenantIDKey, tenantID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// GetTenantID достает ID тенанта из контекста запроса
func GetTenantID(ctx context.Context) (int64, bool) {
	tenantID, ok := ctx.Value(tenantIDKey).(int64)
	return tenantID, ok
}
