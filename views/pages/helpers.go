package pages

import (
	"net/url"
	"strconv"
)

// pageURL keeps the incoming filters and swaps the page number.
func pageURL(q url.Values, page int) string {
	next := url.Values{}
	for k, vs := range q {
		next[k] = vs
	}
	next.Set("page", strconv.Itoa(page))
	return "/?" + next.Encode()
}
