package typedclient

import (
	"reflect"

	"github.com/google/uuid"

	"github.com/kbukum/typedhttp/errors"
)

// namespace scopes identity UUIDs to this module.
var namespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("https://github.com/kbukum/typedhttp"))

// Identity is the canonical name of a typed client. The same type always
// yields the same Identity, so registering a type twice configures one
// named client.
type Identity struct {
	// Name is the package-qualified type name, e.g. "github.com/acme/api.Users".
	// Pointer types are prefixed with "*".
	Name string

	// ID is a name-based UUID derived from Name.
	ID uuid.UUID
}

func (i Identity) String() string { return i.Name }

// IdentityOf returns the Identity of t.
func IdentityOf(t reflect.Type) (Identity, error) {
	if t == nil {
		return Identity{}, errors.InvalidType("type is nil")
	}
	name := qualifiedName(t)
	return Identity{Name: name, ID: uuid.NewSHA1(namespace, []byte(name))}, nil
}

// IdentityFor returns the Identity of T.
func IdentityFor[T any]() Identity {
	id, _ := IdentityOf(reflect.TypeFor[T]())
	return id
}

func qualifiedName(t reflect.Type) string {
	if t.Kind() == reflect.Pointer {
		return "*" + qualifiedName(t.Elem())
	}
	if t.Name() != "" && t.PkgPath() != "" {
		return t.PkgPath() + "." + t.Name()
	}
	return t.String()
}

func requestBuilderKey(id Identity) string { return id.Name + "#request-builder" }
