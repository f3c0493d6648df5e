// Package access decides which views a signed-in role may open.
//
// The role table is validated once at startup. Every navigation is then
// re-evaluated against it, so a session change or a typed path can never
// reach a view the role does not own.
package access

import (
	"fmt"
	"strings"

	"github.com/tb453/shopadmin/internal/domain"
)

// View identifies a top-level screen
type View string

const (
	ViewDashboard View = "dashboard"
	ViewProducts  View = "products"
	ViewSales     View = "sales"
	ViewReports   View = "reports"
	ViewActivity  View = "activity"
	ViewSettings  View = "settings"
)

// Views lists every known view in sidebar order
var Views = []View{ViewDashboard, ViewProducts, ViewSales, ViewReports, ViewActivity, ViewSettings}

// Known reports whether v is one of the defined views
func (v View) Known() bool {
	for _, known := range Views {
		if v == known {
			return true
		}
	}
	return false
}

// Title returns the sidebar label
func (v View) Title() string {
	switch v {
	case ViewDashboard:
		return "Dashboard"
	case ViewProducts:
		return "Products"
	case ViewSales:
		return "Sales"
	case ViewReports:
		return "Reports"
	case ViewActivity:
		return "Activity Log"
	case ViewSettings:
		return "Settings"
	default:
		return string(v)
	}
}

// Path returns the navigation path for v
func (v View) Path() string {
	return "/" + string(v)
}

// Table maps each role to the views it may render
type Table map[domain.Role][]View

// DefaultTable is the shop's permission table
func DefaultTable() Table {
	return Table{
		domain.RoleAdmin:  {ViewDashboard, ViewProducts, ViewSales, ViewReports, ViewSettings, ViewActivity},
		domain.RoleKasir:  {ViewSales},
		domain.RoleGudang: {ViewProducts},
	}
}

// State is the outcome of evaluating a navigation
type State int

const (
	// StateAuthenticating is the initial state while the session is read
	StateAuthenticating State = iota
	StateAuthorized
	StateDenied
)

func (s State) String() string {
	switch s {
	case StateAuthenticating:
		return "authenticating"
	case StateAuthorized:
		return "authorized"
	case StateDenied:
		return "denied"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Decision is the result of Router.Evaluate
type Decision struct {
	State State
	View  View

	// Redirect is set when there is no session; the shell must go to login
	Redirect bool
}

// Router evaluates navigations against a validated Table
type Router struct {
	allowed map[domain.Role]map[View]bool
	order   map[domain.Role][]View
}

// NewRouter validates table and builds a router. Every role must be a
// known role with at least one view, and every view must be known.
func NewRouter(table Table) (*Router, error) {
	if len(table) == 0 {
		return nil, fmt.Errorf("access table is empty")
	}
	r := &Router{
		allowed: make(map[domain.Role]map[View]bool, len(table)),
		order:   make(map[domain.Role][]View, len(table)),
	}
	for role, views := range table {
		if !role.Valid() {
			return nil, fmt.Errorf("access table: unknown role %q", role)
		}
		if len(views) == 0 {
			return nil, fmt.Errorf("access table: role %q has no views", role)
		}
		set := make(map[View]bool, len(views))
		for _, v := range views {
			if !v.Known() {
				return nil, fmt.Errorf("access table: role %q lists unknown view %q", role, v)
			}
			set[v] = true
		}
		r.allowed[role] = set

		// Sidebar order follows Views, not the table literal
		ordered := make([]View, 0, len(set))
		for _, v := range Views {
			if set[v] {
				ordered = append(ordered, v)
			}
		}
		r.order[role] = ordered
	}
	return r, nil
}

// MustNewRouter is NewRouter for static tables
func MustNewRouter(table Table) *Router {
	r, err := NewRouter(table)
	if err != nil {
		panic(err)
	}
	return r
}

// ViewFromPath derives the requested view from a navigation path.
// The empty path is the dashboard; unknown names are returned as-is and
// are denied by Evaluate.
func ViewFromPath(path string) View {
	path = strings.TrimSpace(path)
	path = strings.TrimPrefix(path, "/")
	if i := strings.IndexAny(path, "/?#"); i >= 0 {
		path = path[:i]
	}
	if path == "" {
		return ViewDashboard
	}
	return View(strings.ToLower(path))
}

// Can reports whether role may render v
func (r *Router) Can(role domain.Role, v View) bool {
	return r.allowed[role][v]
}

// Allowed returns the views role may open, in sidebar order
func (r *Router) Allowed(role domain.Role) []View {
	views := r.order[role]
	out := make([]View, len(views))
	copy(out, views)
	return out
}

// Home returns the first view role may open, used after login
func (r *Router) Home(role domain.Role) (View, bool) {
	views := r.order[role]
	if len(views) == 0 {
		return "", false
	}
	return views[0], true
}

// Evaluate decides what to render for path. A nil session means the
// session could not be read and the user must log in.
func (r *Router) Evaluate(session *domain.Session, path string) Decision {
	v := ViewFromPath(path)
	if session == nil || session.ID == "" {
		return Decision{State: StateAuthenticating, View: v, Redirect: true}
	}
	if r.Can(session.Role, v) {
		return Decision{State: StateAuthorized, View: v}
	}
	return Decision{State: StateDenied, View: v}
}
