package middleware

import (
	"etick/internal/models"
	"etick/internal/services"
	"etick/internal/tenancy"
	"etick/pkg/jwt"
	"etick/pkg/response"
	"strings"

	"github.com/gin-gonic/gin"
)

// AuthMiddleware 权限中间件
type AuthMiddleware struct {
	userService *services.UserService
	jwtManager  *jwt.JWTManager
}

// NewAuthMiddleware 创建权限中间件
func NewAuthMiddleware(userService *services.UserService) *AuthMiddleware {
	return &AuthMiddleware{
		userService: userService,
		jwtManager:  jwt.GetJWTManager(), // 使用全局JWT管理器
	}
}

// RequireLogin 登录校验并装配租户上下文
// 每个请求构造一个新的只读 tenancy.Context，绝不跨请求复用
func (m *AuthMiddleware) RequireLogin() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			response.Unauthorized(c, "请先登录")
			c.Abort()
			return
		}

		if !strings.HasPrefix(authHeader, "Bearer ") {
			response.Unauthorized(c, "认证头格式错误")
			c.Abort()
			return
		}

		tokenString := authHeader[7:] // 去掉 "Bearer "

		claims, err := m.jwtManager.VerifyToken(tokenString)
		if err != nil {
			response.Unauthorized(c, "Token无效或已过期")
			c.Abort()
			return
		}

		user, err := m.userService.GetByID(claims.UserID)
		if err != nil {
			response.Unauthorized(c, "用户不存在")
			c.Abort()
			return
		}

		if !m.userService.IsActive(user) {
			response.Unauthorized(c, "用户已被禁用")
			c.Abort()
			return
		}

		// 租户上下文始终来自已认证的声明，绝不取自请求参数
		c.Set("user", user)
		c.Set("user_id", claims.UserID)
		c.Set("claims", claims)
		c.Set("tenant_context", tenancy.NewContext(claims.TenantID))

		c.Next()
	}
}

// RequireTenantAdmin 要求租户管理员
func (m *AuthMiddleware) RequireTenantAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		user, exists := c.Get("user")
		if !exists {
			response.Unauthorized(c, "请先登录")
			c.Abort()
			return
		}

		userObj := user.(*models.User)
		if !userObj.IsPlatformAdmin && !userObj.IsTenantAdmin {
			response.Forbidden(c, "需要管理员权限")
			c.Abort()
			return
		}

		c.Next()
	}
}

// RequirePlatformAdmin 平台管理员专用，改挂系统哨兵上下文
// 这是构造 SystemContext 的唯一中间件，管理路由组显式引用它
func (m *AuthMiddleware) RequirePlatformAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		user, exists := c.Get("user")
		if !exists {
			response.Unauthorized(c, "请先登录")
			c.Abort()
			return
		}

		if !user.(*models.User).IsPlatformAdmin {
			response.Forbidden(c, "需要平台管理员权限")
			c.Abort()
			return
		}

		c.Set("tenant_context", tenancy.SystemContext())
		c.Next()
	}
}

// TenantContext 从请求上下文取出租户上下文
func TenantContext(c *gin.Context) tenancy.Context {
	if v, exists := c.Get("tenant_context"); exists {
		return v.(tenancy.Context)
	}
	return tenancy.Context{}
}
