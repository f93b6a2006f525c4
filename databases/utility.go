package databases

import "go.mongodb.org/mongo-driver/mongo/options"

// Paginate builds find options for 1-based page navigation
func Paginate(limit, page int64) *options.FindOptions {
	if limit <= 0 {
		limit = 10
	}
	if page <= 0 {
		page = 1
	}
	skip := page*limit - limit

	return options.Find().SetLimit(limit).SetSkip(skip)
}
