package postgres

import (
	"fmt"
	"strings"

	"github.com/sharebnb/sharebnb-api/internal/core/domain"
)

const listingColumns = "id, title, type, photo_url, price, description, location, owner_username"

// assignment is one "column = value" pair of an UPDATE.
type assignment struct {
	column string
	value  any
}

// buildUpdate renders an UPDATE for the given assignments keyed on one column.
// Column names come from code, never from request input.
func buildUpdate(table string, set []assignment, keyColumn string, key any, returning string) (string, []any) {
	cols := make([]string, 0, len(set))
	args := make([]any, 0, len(set)+1)
	for i, a := range set {
		cols = append(cols, fmt.Sprintf("%s = $%d", a.column, i+1))
		args = append(args, a.value)
	}
	args = append(args, key)

	query := fmt.Sprintf("UPDATE %s SET %s WHERE %s = $%d RETURNING %s",
		table, strings.Join(cols, ", "), keyColumn, len(args), returning)
	return query, args
}

// listingAssignments maps the mutable listing fields. Owner and id are never part of it.
func listingAssignments(p domain.ListingPatch) []assignment {
	var set []assignment
	if p.Title != nil {
		set = append(set, assignment{"title", *p.Title})
	}
	if p.Type != nil {
		set = append(set, assignment{"type", *p.Type})
	}
	if p.PhotoURL != nil {
		set = append(set, assignment{"photo_url", *p.PhotoURL})
	}
	if p.Price != nil {
		set = append(set, assignment{"price", *p.Price})
	}
	if p.Description != nil {
		set = append(set, assignment{"description", *p.Description})
	}
	if p.Location != nil {
		set = append(set, assignment{"location", *p.Location})
	}
	return set
}

func userAssignments(p domain.UserPatch) []assignment {
	var set []assignment
	if p.FirstName != nil {
		set = append(set, assignment{"first_name", *p.FirstName})
	}
	if p.LastName != nil {
		set = append(set, assignment{"last_name", *p.LastName})
	}
	if p.Email != nil {
		set = append(set, assignment{"email", *p.Email})
	}
	return set
}

// buildFindAll renders the listing search. No filter means no WHERE clause;
// a title filter adds exactly one case-insensitive substring condition.
func buildFindAll(f domain.ListingFilter) (string, []any) {
	var (
		where []string
		args  []any
	)
	if f.Title != nil {
		args = append(args, "%"+escapeLike(*f.Title)+"%")
		where = append(where, fmt.Sprintf(`title ILIKE $%d ESCAPE '\'`, len(args)))
	}

	query := "SELECT " + listingColumns + " FROM listings"
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY title, id"
	return query, args
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string { return likeEscaper.Replace(s) }
