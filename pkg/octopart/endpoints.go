package octopart

// Endpoint paths relative to the API base URL.
const (
	pathCategoriesGet          = "categories/get"
	pathCategoriesGetMulti     = "categories/get_multi"
	pathCategoriesSearch       = "categories/search"
	pathPartsGet               = "parts/get"
	pathPartsGetMulti          = "parts/get_multi"
	pathPartsSearch            = "parts/search"
	pathPartsSuggest           = "parts/suggest"
	pathPartsMatch             = "parts/match"
	pathPartAttributesGet      = "partattributes/get"
	pathPartAttributesGetMulti = "partattributes/get_multi"
	pathBOMMatch               = "bom/match"
)

// maxBOMWindow caps start+limit of a single BOM line.
const maxBOMWindow = 100

type endpoint struct {
	path   string
	schema *Schema
	// absentOnNotFound turns a 404 into an empty result instead of
	// ErrNotFound. Single-item lookups use it.
	absentOnNotFound bool
}

// Client-wide arguments. Every endpoint accepts them so that an explicit
// per-call value can take precedence over the configured one.
var clientFields = map[string]Field{
	"apikey":       String{},
	"callback":     String{},
	"pretty_print": Boolean{},
}

var optimizeFields = map[string]Field{
	"optimize.hide_datasheets":          Boolean{},
	"optimize.hide_descriptions":        Boolean{},
	"optimize.hide_images":              Boolean{},
	"optimize.hide_offers":              Boolean{},
	"optimize.hide_unauthorized_offers": Boolean{},
	"optimize.hide_specs":               Boolean{},
}

var (
	idList     = List{Elem: Integer{}, Length: Between(0, 100)}
	startRange = Integer{Range: Between(0, 1000)}
	limitRange = Integer{Range: Between(0, 100)}
)

var searchFields = map[string]Field{
	"q":       String{},
	"start":   startRange,
	"limit":   limitRange,
	"filters": List{Elem: Pair{First: String{}, Second: List{}}},
	"rangedfilters": List{Elem: Pair{
		First: String{},
		Second: List{Elem: Pair{
			First:  Nullable{Field: Number{}},
			Second: Nullable{Field: Number{}},
		}},
	}},
	"sortby": List{Elem: Pair{
		First:  String{},
		Second: Enum{Allowed: []string{"asc", "desc"}, Kind: ErrInvalidSortOrder},
	}},
	"drilldown.include":             Boolean{},
	"drilldown.fieldname":           String{},
	"drilldown.facets.prefix":       String{},
	"drilldown.facets.start":        startRange,
	"drilldown.facets.limit":        limitRange,
	"drilldown.facets.sortby":       String{},
	"drilldown.facets.include_hits": Boolean{},
}

var bomLineSchema = &Schema{
	Name: "bom/match line",
	Fields: map[string]Field{
		"q":            String{},
		"mpn":          String{},
		"manufacturer": String{},
		"sku":          String{},
		"supplier":     String{},
		"mpn_or_sku":   String{},
		"reference":    String{},
		"start":        Integer{Range: Between(0, maxBOMWindow)},
		"limit":        Integer{Range: Between(0, maxBOMWindow)},
	},
	Checks: []Check{checkBOMWindow},
}

// checkBOMWindow rejects lines whose start+limit exceeds the window the API
// will page through.
func checkBOMWindow(args Args) error {
	start, _ := intValue(args["start"])
	limit, _ := intValue(args["limit"])
	if start+limit > maxBOMWindow {
		return violation(ErrPaginationWindow, "limit")
	}
	return nil
}

func endpointSchema(name string, required []string, fieldSets ...map[string]Field) *Schema {
	s := &Schema{Name: name, Fields: map[string]Field{}, Required: required}
	for _, set := range append([]map[string]Field{clientFields}, fieldSets...) {
		for k, f := range set {
			s.Fields[k] = f
		}
	}
	return s
}

var (
	categoriesGet = endpoint{
		path:             pathCategoriesGet,
		schema:           endpointSchema(pathCategoriesGet, []string{"id"}, map[string]Field{"id": Integer{}}),
		absentOnNotFound: true,
	}
	categoriesGetMulti = endpoint{
		path:   pathCategoriesGetMulti,
		schema: endpointSchema(pathCategoriesGetMulti, []string{"ids"}, map[string]Field{"ids": idList}),
	}
	categoriesSearch = endpoint{
		path: pathCategoriesSearch,
		schema: endpointSchema(pathCategoriesSearch, nil, map[string]Field{
			"q":           String{},
			"start":       startRange,
			"limit":       limitRange,
			"ancestor_id": Integer{},
		}),
	}
	partsGet = endpoint{
		path: pathPartsGet,
		schema: endpointSchema(pathPartsGet, []string{"uid"},
			map[string]Field{"uid": Integer{}}, optimizeFields),
		absentOnNotFound: true,
	}
	partsGetMulti = endpoint{
		path: pathPartsGetMulti,
		schema: endpointSchema(pathPartsGetMulti, []string{"uids"},
			map[string]Field{"uids": idList}, optimizeFields),
	}
	partsSearch = endpoint{
		path:   pathPartsSearch,
		schema: endpointSchema(pathPartsSearch, nil, searchFields, optimizeFields),
	}
	partsSuggest = endpoint{
		path: pathPartsSuggest,
		schema: endpointSchema(pathPartsSuggest, []string{"q"}, map[string]Field{
			"q":     String{Length: AtLeast(2)},
			"limit": Integer{Range: Between(0, 10)},
		}),
	}
	partsMatch = endpoint{
		path: pathPartsMatch,
		schema: endpointSchema(pathPartsMatch, []string{"manufacturer_name", "mpn"}, map[string]Field{
			"manufacturer_name": String{},
			"mpn":               String{},
		}),
	}
	partAttributesGet = endpoint{
		path:             pathPartAttributesGet,
		schema:           endpointSchema(pathPartAttributesGet, []string{"fieldname"}, map[string]Field{"fieldname": String{}}),
		absentOnNotFound: true,
	}
	partAttributesGetMulti = endpoint{
		path: pathPartAttributesGetMulti,
		schema: endpointSchema(pathPartAttributesGetMulti, []string{"fieldnames"}, map[string]Field{
			"fieldnames": List{Elem: String{}, Length: Between(0, 100)},
		}),
	}
	bomMatch = endpoint{
		path: pathBOMMatch,
		schema: endpointSchema(pathBOMMatch, []string{"lines"}, map[string]Field{
			"lines":                 List{Elem: Object{Schema: bomLineSchema}},
			"optimize.return_stubs": Boolean{},
		}, optimizeFields),
	}
)
