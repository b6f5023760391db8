package httpserver

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/dmitrijs2005/mixmini/internal/common"
	"github.com/dmitrijs2005/mixmini/internal/server/models"
	"github.com/dmitrijs2005/mixmini/internal/server/services"
)

const recipeNotFound = "Recipe not found"

// blankRows is how many empty component rows the form offers.
const blankRows = 3

type formRow struct {
	PaintID string
	Ratio   string
}

type formView struct {
	ID     int64
	Action string
	Name   string
	Note   string
	Rows   []formRow
	Paints []*models.Paint
}

func newFormView(f *services.RecipeForm, id int64) *formView {
	v := &formView{ID: id, Action: "/recipes/new", Paints: f.Paints}
	if id != 0 {
		v.Action = fmt.Sprintf("/recipes/%d/edit", id)
	}
	if f.Recipe != nil {
		v.Name, v.Note = f.Recipe.Name, f.Recipe.Note
	}
	for _, c := range f.Components {
		v.Rows = append(v.Rows, formRow{
			PaintID: strconv.FormatInt(c.Component.PaintID, 10),
			Ratio:   strconv.Itoa(c.Component.Ratio),
		})
	}
	for i := 0; i < blankRows; i++ {
		v.Rows = append(v.Rows, formRow{})
	}
	return v
}

// recipeInput reads name, note and the parallel paint_id/ratio lists.
func recipeInput(r *http.Request) (services.RecipeInput, error) {
	if err := r.ParseForm(); err != nil {
		return services.RecipeInput{}, common.NewValidationError("Invalid form")
	}
	f := r.PostForm
	in := services.RecipeInput{
		Name:     f.Get("name"),
		Note:     f.Get("note"),
		PaintIDs: f["paint_id"],
		Ratios:   f["ratio"],
	}
	if len(in.PaintIDs) == 0 && len(in.Ratios) == 0 {
		in.PaintIDs, in.Ratios = f["paint_id[]"], f["ratio[]"]
	}
	return in, nil
}

func (s *HTTPServer) recipeList(w http.ResponseWriter, r *http.Request) {
	list, err := s.recipes.List(r.Context(), userFrom(r.Context()).ID)
	if err != nil {
		s.fail(w, r, err, "")
		return
	}
	s.renderPage(w, r, http.StatusOK, "recipes/list.html", pageData{Title: "Recipes", Data: list})
}

func (s *HTTPServer) recipeDetail(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		s.fail(w, r, err, recipeNotFound)
		return
	}

	detail, err := s.recipes.Get(r.Context(), userFrom(r.Context()).ID, id)
	if err != nil {
		s.fail(w, r, err, recipeNotFound)
		return
	}
	s.renderPage(w, r, http.StatusOK, "recipes/detail.html", pageData{Title: detail.Recipe.Name, Data: detail})
}

func (s *HTTPServer) recipeNew(w http.ResponseWriter, r *http.Request) {
	s.showRecipeForm(w, r, 0)
}

func (s *HTTPServer) recipeEdit(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		s.fail(w, r, err, recipeNotFound)
		return
	}
	s.showRecipeForm(w, r, id)
}

func (s *HTTPServer) showRecipeForm(w http.ResponseWriter, r *http.Request, id int64) {
	form, err := s.recipes.Form(r.Context(), userFrom(r.Context()).ID, id)
	if err != nil {
		s.fail(w, r, err, recipeNotFound)
		return
	}
	s.renderPage(w, r, http.StatusOK, "recipes/form.html", pageData{Title: "Recipe", Data: newFormView(form, id)})
}

func (s *HTTPServer) recipeCreate(w http.ResponseWriter, r *http.Request) {
	user := userFrom(r.Context())

	in, err := recipeInput(r)
	if err == nil {
		var recipe *models.Recipe
		recipe, err = s.recipes.Create(r.Context(), user.ID, in)
		if err == nil {
			s.metrics.RecordRecipeWrite("create")
			http.Redirect(w, r, fmt.Sprintf("/recipes/%d", recipe.ID), http.StatusSeeOther)
			return
		}
	}
	s.rejectRecipeForm(w, r, 0, in, err)
}

func (s *HTTPServer) recipeUpdate(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		s.fail(w, r, err, recipeNotFound)
		return
	}
	user := userFrom(r.Context())

	in, err := recipeInput(r)
	if err == nil {
		_, err = s.recipes.Update(r.Context(), user.ID, id, in)
		if err == nil {
			s.metrics.RecordRecipeWrite("update")
			http.Redirect(w, r, fmt.Sprintf("/recipes/%d", id), http.StatusSeeOther)
			return
		}
	}
	s.rejectRecipeForm(w, r, id, in, err)
}

// rejectRecipeForm re-renders the form with the submitted values and a 400
// for validation errors. Other errors go through fail.
func (s *HTTPServer) rejectRecipeForm(w http.ResponseWriter, r *http.Request, id int64, in services.RecipeInput, err error) {
	var verr *common.ValidationError
	if !errors.As(err, &verr) {
		s.fail(w, r, err, recipeNotFound)
		return
	}

	form, ferr := s.recipes.Form(r.Context(), userFrom(r.Context()).ID, id)
	if ferr != nil {
		s.fail(w, r, ferr, recipeNotFound)
		return
	}

	v := newFormView(&services.RecipeForm{Paints: form.Paints}, id)
	v.Name, v.Note = in.Name, in.Note
	rows := make([]formRow, 0, len(in.PaintIDs)+blankRows)
	for i := 0; i < min(len(in.PaintIDs), len(in.Ratios)); i++ {
		rows = append(rows, formRow{PaintID: in.PaintIDs[i], Ratio: in.Ratios[i]})
	}
	v.Rows = append(rows, v.Rows...)

	s.renderPage(w, r, http.StatusBadRequest, "recipes/form.html", pageData{Title: "Recipe", Error: verr.Message, Data: v})
}

func (s *HTTPServer) recipeDelete(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		s.fail(w, r, err, recipeNotFound)
		return
	}

	if err := s.recipes.Delete(r.Context(), userFrom(r.Context()).ID, id); err != nil {
		s.fail(w, r, err, recipeNotFound)
		return
	}
	s.metrics.RecordRecipeWrite("delete")
	http.Redirect(w, r, "/recipes", http.StatusSeeOther)
}

func (s *HTTPServer) paintSearch(w http.ResponseWriter, r *http.Request) {
	paints, err := s.catalog.PaintSearch(r.Context(), r.URL.Query().Get("q"))
	if err != nil {
		s.fail(w, r, err, "")
		return
	}
	s.renderPartial(w, r, "paint_search_results", paints)
}
