package model

type CatalogEntry struct {
	Num   uint32   `json:"num"`
	Name  string   `json:"name"`
	Paths []string `json:"paths"`
}

type CatalogResponse struct {
	Documents []CatalogEntry `json:"documents"`
}

type ErrorResponse struct {
	Error string `json:"detail"`
}
