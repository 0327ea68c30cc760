package notes

import (
	"math"
	"regexp"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	DefaultPage  = 1
	DefaultLimit = 10

	DefaultSortBy = "createdAt"
)

// Filter selects notes. When Search is set it replaces the other criteria:
// matches are any non-archived note whose title, content or tags contain
// the term, whatever Priority and Archived say.
type Filter struct {
	Priority Priority
	Archived bool
	Search   string
}

// SearchMode reports whether the filter is a free-text search.
func (f Filter) SearchMode() bool {
	return f.Search != ""
}

// BSON renders the filter as a MongoDB predicate.
func (f Filter) BSON() bson.D {
	if f.SearchMode() {
		re := primitive.Regex{Pattern: regexp.QuoteMeta(f.Search), Options: "i"}
		return bson.D{{Key: "$and", Value: bson.A{
			bson.D{{Key: "is_archived", Value: false}},
			bson.D{{Key: "$or", Value: bson.A{
				bson.D{{Key: "title", Value: bson.D{{Key: "$regex", Value: re}}}},
				bson.D{{Key: "content", Value: bson.D{{Key: "$regex", Value: re}}}},
				bson.D{{Key: "tags", Value: bson.D{{Key: "$in", Value: bson.A{re}}}}},
			}}},
		}}}
	}

	filter := bson.D{}
	if f.Priority != "" {
		filter = append(filter, bson.E{Key: "priority", Value: string(f.Priority)})
	}
	return append(filter, bson.E{Key: "is_archived", Value: f.Archived})
}

// Match evaluates the filter against a single note. It agrees with BSON.
func (f Filter) Match(n *Note) bool {
	return f.Matcher()(n)
}

// Matcher compiles the filter once for evaluating many notes. Search uses
// the same escaped case-insensitive pattern that BSON sends to MongoDB, so
// case folding follows Unicode simple folding on both sides.
func (f Filter) Matcher() func(*Note) bool {
	if f.SearchMode() {
		re := regexp.MustCompile("(?i)" + regexp.QuoteMeta(f.Search))
		return func(n *Note) bool {
			if n.IsArchived {
				return false
			}
			if re.MatchString(n.Title) || re.MatchString(n.Content) {
				return true
			}
			for _, tag := range n.Tags {
				if re.MatchString(tag) {
					return true
				}
			}
			return false
		}
	}

	return func(n *Note) bool {
		if f.Priority != "" && n.Priority != f.Priority {
			return false
		}
		return n.IsArchived == f.Archived
	}
}

// Sort is a single-key ordering. An empty Field keeps storage order.
type Sort struct {
	Field string
	Desc  bool
}

// BSON renders the sort as a MongoDB sort document, or nil for no sort.
func (s Sort) BSON() bson.D {
	if s.Field == "" {
		return nil
	}
	dir := 1
	if s.Desc {
		dir = -1
	}
	return bson.D{{Key: s.Field, Value: dir}}
}

// Plan is the composed query for one list request.
type Plan struct {
	Filter Filter
	Sort   Sort
	Skip   int64
	Limit  int64 // 0 means no limit

	Page    int
	PerPage int
}

// sortFields maps API field names to stored field names.
var sortFields = map[string]string{
	"id":         "_id",
	"_id":        "_id",
	"title":      "title",
	"content":    "content",
	"tags":       "tags",
	"priority":   "priority",
	"isArchived": "is_archived",
	"createdAt":  "created_at",
	"updatedAt":  "updated_at",
}

// storedField returns the storage name for an API sort field. Unknown
// names are passed through.
func storedField(name string) string {
	if f, ok := sortFields[name]; ok {
		return f
	}
	return name
}

// Compose turns list parameters into a query plan. It never fails,
// non-positive page or limit values fall back to the defaults.
func Compose(q ListQuery) Plan {
	page := q.Page
	if page < 1 {
		page = DefaultPage
	}
	limit := q.Limit
	if limit < 1 {
		limit = DefaultLimit
	}

	var filter Filter
	if q.Search != "" {
		filter = Filter{Search: q.Search}
	} else {
		filter = Filter{Priority: q.Priority, Archived: q.Archived == "true"}
	}

	sortBy := q.SortBy
	if sortBy == "" {
		sortBy = DefaultSortBy
	}

	return Plan{
		Filter:  filter,
		Sort:    Sort{Field: storedField(sortBy), Desc: q.SortOrder != "asc"},
		Skip:    skipFor(page, limit),
		Limit:   int64(limit),
		Page:    page,
		PerPage: limit,
	}
}

// skipFor is (page-1)*limit, saturated at math.MaxInt64 so huge pages
// select nothing instead of wrapping around.
func skipFor(page, limit int) int64 {
	prev, per := int64(page-1), int64(limit)
	if prev > math.MaxInt64/per {
		return math.MaxInt64
	}
	return prev * per
}

// TotalPages is ceil(total / perPage), and 0 for an empty result.
func TotalPages(total int64, perPage int) int {
	if total <= 0 || perPage <= 0 {
		return 0
	}
	return int((total + int64(perPage) - 1) / int64(perPage))
}
