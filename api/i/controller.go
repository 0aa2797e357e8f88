package i

import "github.com/gin-gonic/gin"

// Controller registers its routes on the router groups. Protected routes sit
// behind the authorization middleware.
type Controller interface {
	RegisterPublic(*gin.RouterGroup)
	RegisterProtected(*gin.RouterGroup)
}
