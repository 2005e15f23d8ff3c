package web

import (
	"embed"
	"html/template"
)

//go:embed templates/*.html
var files embed.FS

// Templates 解析内嵌模板；页面模板按文件名引用，如 "careers.html"
func Templates() (*template.Template, error) {
	return template.New("").ParseFS(files, "templates/*.html")
}
