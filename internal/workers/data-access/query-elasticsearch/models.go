// internal/workers/data-access/query-elasticsearch/models.go
package queryelasticsearch

type Input struct {
	QueryType  string                 `json:"queryType"`
	IndexName  string                 `json:"indexName,omitempty"`
	Filters    map[string]interface{} `json:"filters,omitempty"`
	Pagination *Pagination            `json:"pagination,omitempty"`
}

type Pagination struct {
	From int `json:"from"`
	Size int `json:"size"`
}

type Output struct {
	Data      []map[string]interface{} `json:"data"`
	TotalHits int                      `json:"totalHits"`
	MaxScore  float64                  `json:"maxScore"`
	Took      int                      `json:"took"`
}
