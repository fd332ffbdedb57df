package server

import (
	"github.com/nhdewitt/tcp-http-server/internal/request"
	"github.com/nhdewitt/tcp-http-server/internal/response"
)

// Handler turns one parsed request into the response sent back on the same
// connection.
type Handler func(req *request.Request) response.Response
