package offer

type Scope string

const (
	ScopeAll      Scope = "all"
	ScopeCategory Scope = "category"
	ScopeProducts Scope = "products"
)

func (s Scope) String() string {
	return string(s)
}

func NewScope(s string) (Scope, error) {
	scope := Scope(s)
	if !scope.IsValid() {
		return "", ErrInvalidScope
	}
	return scope, nil
}

func (s Scope) IsValid() bool {
	switch s {
	case ScopeAll, ScopeCategory, ScopeProducts:
		return true
	default:
		return false
	}
}
