package controller

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

type urlMethodPair struct {
	urlSuffix, method string
}

// EndpointMap is a map containing endpoints and the corresponding handlers that are defined and managed by a controller.
//
// Each entry in the map is organized in the following manner.
//
//	(urlSuffix, method): handler_function_list
//
// Thus it takes a URL suffix and an HTTP method as the key to perform a lookup.
type EndpointMap map[urlMethodPair][]gin.HandlerFunc

// A Controller must contain an endpoint map.
type Controller interface {
	GetGroupName() string
	GetEndpointMap() EndpointMap
}

var supportedMethods = map[string]bool{
	http.MethodGet:     true,
	http.MethodPost:    true,
	http.MethodPut:     true,
	http.MethodDelete:  true,
	http.MethodPatch:   true,
	http.MethodHead:    true,
	http.MethodOptions: true,
}

// RegisterHandlers registers the endpoint handlers in the controller to the router group.
// Nothing is registered if any endpoint of the controller is invalid.
func RegisterHandlers(r *gin.RouterGroup, c Controller) error {
	em := c.GetEndpointMap()

	for pair, handlers := range em {
		if !supportedMethods[strings.ToUpper(pair.method)] {
			return fmt.Errorf("不支持的 HTTP 方法 '%v' (%v/%v)", pair.method, c.GetGroupName(), pair.urlSuffix)
		}
		if len(handlers) == 0 {
			return fmt.Errorf("端点 %v %v/%v 未指定处理函数", pair.method, c.GetGroupName(), pair.urlSuffix)
		}
	}

	group := r.Group(c.GetGroupName())
	for pair, handlers := range em {
		group.Handle(strings.ToUpper(pair.method), pair.urlSuffix, handlers...)
	}

	return nil
}
