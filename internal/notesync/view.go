package notesync

import (
	"strings"

	"notes-cli/internal/model"
)

const (
	MsgLoading       = "Loading..."
	MsgUpdating      = "Updating..."
	MsgFetchFailed   = "Something went wrong."
	MsgNoResults     = "No notes found."
	MsgNoNotes       = "No notes yet."
	MsgDeleteFailed  = "Failed to delete note. Please try again."
	MsgCreateFailed  = "Failed to create note. Please try again."
	DialogTitle      = "Create note"
	DialogDesc       = "Fill the form to create a note."
	LabelSubmit      = "Create note"
	LabelSubmitting  = "Creating..."
	LabelDelete      = "Delete"
	LabelDeleting    = "Deleting..."
	LabelOpenDialog  = "Create note +"
	LabelCancel      = "Cancel"
	PaginationWindow = 5
)

// View is everything the screen renders, derived from engine state.
type View struct {
	SearchRaw string
	Search    string

	Notes       []model.Note
	Placeholder bool
	Loading     bool
	Updating    bool
	FetchError  string
	Empty       string

	Page           int
	TotalPages     int
	ShowPagination bool
	PageTargets    []int

	Deleting    map[string]bool
	DeleteError string

	Focus  string
	Scroll bool

	Dialog DialogView
}

type DialogView struct {
	Open        bool
	LabelledBy  string
	DescribedBy string
	Title       string
	Description string

	Values      model.Draft
	FieldErrors map[string]string
	CreateError string
	Pending     bool
	CanSubmit   bool
	CanCancel   bool
	SubmitLabel string
}

// DeleteLabel is the delete button text for the row of note id.
func (v View) DeleteLabel(id string) string {
	if v.Deleting[id] {
		return LabelDeleting
	}
	return LabelDelete
}

func (e *Engine) View() View {
	snap := e.cache.Snapshot()
	v := View{
		SearchRaw:   e.search.Raw(),
		Search:      e.search.Committed(),
		Placeholder: snap.Placeholder,
		Loading:     snap.IsLoading,
		Updating:    snap.IsFetching && !snap.IsLoading,
		Page:        e.pages.Page(),
		TotalPages:  e.pages.TotalPages(),
		Deleting:    map[string]bool{},
		Focus:       e.doc.ActiveElement(),
		Scroll:      !e.dialog.ScrollLock().Locked(),
	}
	if snap.Data != nil {
		v.Notes = snap.Data.Notes
	}
	if snap.IsError {
		v.FetchError = MsgFetchFailed
	}
	if snap.Data != nil && !snap.IsLoading && !snap.IsError && len(snap.Data.Notes) == 0 {
		if strings.TrimSpace(v.Search) != "" {
			v.Empty = MsgNoResults
		} else {
			v.Empty = MsgNoNotes
		}
	}
	if e.pages.Visible() {
		v.ShowPagination = true
		v.PageTargets = e.pages.Window(PaginationWindow)
	}
	for _, id := range e.muts.PendingDeletes() {
		v.Deleting[id] = true
	}
	if e.muts.DeleteError() != nil {
		v.DeleteError = MsgDeleteFailed
	}

	pending := e.muts.CreatePending()
	labels := e.dialog.Labels()
	v.Dialog = DialogView{
		Open:        e.dialog.IsOpen(),
		LabelledBy:  labels.LabelledBy,
		DescribedBy: labels.DescribedBy,
		Title:       DialogTitle,
		Description: DialogDesc,
		Values:      e.form.Values(),
		FieldErrors: map[string]string{},
		Pending:     pending,
		CanSubmit:   e.form.CanSubmit(pending),
		CanCancel:   !pending,
		SubmitLabel: LabelSubmit,
	}
	if pending {
		v.Dialog.SubmitLabel = LabelSubmitting
	}
	for _, f := range []string{model.FieldTitle, model.FieldContent, model.FieldTag} {
		if msg := e.form.Error(f); msg != "" {
			v.Dialog.FieldErrors[f] = msg
		}
	}
	if e.muts.CreateError() != nil {
		v.Dialog.CreateError = MsgCreateFailed
	}
	return v
}
