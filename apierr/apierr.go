package apierr

import (
	"errors"
	"log"

	"github.com/gin-gonic/gin"
)

type Kind int

const (
	KindInput Kind = iota + 1
	KindAccess
)

func (k Kind) String() string {
	switch k {
	case KindInput:
		return "InputError"
	case KindAccess:
		return "AccessError"
	default:
		return "System Error"
	}
}

// Error is a caller-visible failure. Every operation reports rejected
// input or missing permission through one of the two kinds.
type Error struct {
	Kind    Kind
	Message string
}

func (e *Error) Error() string {
	return e.Kind.String() + ": " + e.Message
}

func Input(msg string) error {
	return &Error{Kind: KindInput, Message: msg}
}

func Access(msg string) error {
	return &Error{Kind: KindAccess, Message: msg}
}

func KindOf(err error) (Kind, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind, true
	}
	return 0, false
}

func IsInput(err error) bool {
	k, ok := KindOf(err)
	return ok && k == KindInput
}

func IsAccess(err error) bool {
	k, ok := KindOf(err)
	return ok && k == KindAccess
}

// Write renders err as the JSON error body. Input and access errors are
// 400s; anything else is logged and reported as a 500.
func Write(c *gin.Context, err error) {
	var e *Error
	if errors.As(err, &e) {
		c.AbortWithStatusJSON(400, gin.H{
			"code":    400,
			"name":    e.Kind.String(),
			"message": e.Message,
		})
		return
	}

	log.Printf("%s %s: %v", c.Request.Method, c.Request.URL.Path, err)
	c.AbortWithStatusJSON(500, gin.H{
		"code":    500,
		"name":    "System Error",
		"message": "Internal server error",
	})
}
