package templates

import (
	"embed"
	"html/template"
	"net/http"

	"github.com/a-h/templ"
)

//go:embed html/*.html
var files embed.FS

// FlashMessage is a one-shot notice shown at the top of the next page
type FlashMessage struct {
	Type    string // "success", "error" or "info"
	Message string
}

// PageData holds fields shared by every full page
type PageData struct {
	Title string
	Flash *FlashMessage
}

// HomeData is the data for the home page
type HomeData struct {
	PageData
	Code string
}

// BoardPageData is the data for the board page
type BoardPageData struct {
	PageData
	View BoardView
}

// ErrorData is the data for the error page
type ErrorData struct {
	PageData
	Status  int
	Heading string
	Message string
}

var (
	partials  = template.Must(template.New("partials").ParseFS(files, "html/partials.html"))
	homePage  = page("html/home.html")
	boardPage = page("html/board.html")
	errorPage = page("html/error.html")
)

// page parses a content template against the shared layout and partials
func page(name string) *template.Template {
	t := template.Must(partials.Clone())
	template.Must(t.ParseFS(files, "html/layout.html", name))
	return t.Lookup("layout")
}

// Home renders the home page
func Home(data HomeData) templ.Component {
	return templ.FromGoHTML(homePage, data)
}

// Board renders the board page
func Board(data BoardPageData) templ.Component {
	return templ.FromGoHTML(boardPage, data)
}

// Error renders the error page
func Error(data ErrorData) templ.Component {
	return templ.FromGoHTML(errorPage, data)
}

// NotFound returns error page data for a missing board
func NotFound() ErrorData {
	return ErrorData{
		PageData: PageData{Title: "Not found"},
		Status:   http.StatusNotFound,
		Heading:  "Board not found",
		Message:  "Check the code and try again.",
	}
}

// Grid renders the square grid fragment for one viewer
func Grid(view BoardView) templ.Component {
	return templ.FromGoHTML(partials.Lookup("grid"), view)
}

// Status renders the viewer-independent status fragment
func Status(view BoardView) templ.Component {
	return templ.FromGoHTML(partials.Lookup("status"), view)
}
