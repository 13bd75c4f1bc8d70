// Package docs provides generated OpenAPI documentation.
//
// ocrstudio API
//
//	@title			ocrstudio API
//	@version		1.0
//	@description	PDF OCR pipeline: rasterize, recognize, translate and export scanned documents.
//
//	@contact.name	API Support
//	@contact.url	https://github.com/jackzampolin/ocrstudio
//
//	@license.name	MIT
//	@license.url	https://opensource.org/licenses/MIT
//
//	@host		localhost:8080
//	@BasePath	/
//
//	@schemes	http
package docs

//go:generate swag init -g ../cmd/ocrstudio/serve.go -o ./swagger --parseDependency --parseInternal
