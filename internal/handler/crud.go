package handler

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/devinci/portal/internal/crud"
	"github.com/devinci/portal/internal/domain"
)

// TablePage описывает страницу с CRUD таблицей, состояние которой живет в
// рабочем пространстве сессии
type TablePage[T any, ID comparable] struct {
	// Table возвращает таблицу текущей сессии
	Table func(r *http.Request) (*crud.Table[T, ID], error)
	// ParseID разбирает id строки из query параметра
	ParseID func(raw string) (ID, error)
	// View строит ответ; по умолчанию отдается снимок таблицы
	View func(r *http.Request, table *crud.Table[T, ID]) (any, error)
	// CanWrite разрешает изменения; nil значит разрешено всем
	CanWrite func(r *http.Request) bool
}

// Routes монтирует эндпоинты страницы:
//
//	GET   /          текущее состояние
//	POST  /refresh   перезагрузка
//	POST  /create    открыть черновик новой строки
//	POST  /edit      открыть черновик строки ?id= или ?index=
//	PATCH /draft     изменить поля черновика
//	POST  /submit    отправить черновик
//	POST  /cancel    сбросить режим
//	POST  /delete    удалить строку ?id= или ?index=, требует ?confirm=true
func (p *TablePage[T, ID]) Routes() chi.Router {
	r := chi.NewRouter()
	r.Get("/", p.get)
	r.Post("/refresh", p.refresh)

	r.Group(func(r chi.Router) {
		r.Use(p.writeGate)
		r.Post("/create", p.create)
		r.Post("/edit", p.edit)
		r.Patch("/draft", p.draft)
		r.Post("/submit", p.submit)
		r.Post("/cancel", p.cancel)
		r.Post("/delete", p.remove)
	})
	return r
}

func (p *TablePage[T, ID]) writeGate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if p.CanWrite != nil && !p.CanWrite(r) {
			RespondWithError(w, r, http.StatusForbidden, domain.CodeForbidden, "you are not allowed to change this page")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (p *TablePage[T, ID]) get(w http.ResponseWriter, r *http.Request) {
	table, ok := p.table(w, r)
	if !ok {
		return
	}
	p.respond(w, r, table)
}

func (p *TablePage[T, ID]) refresh(w http.ResponseWriter, r *http.Request) {
	table, ok := p.table(w, r)
	if !ok {
		return
	}
	if err := table.Load(r.Context()); err != nil {
		HandleError(w, r, err)
		return
	}
	p.respond(w, r, table)
}

// create обрабатывает POST /create, необязательное тело заполняет черновик
func (p *TablePage[T, ID]) create(w http.ResponseWriter, r *http.Request) {
	table, ok := p.table(w, r)
	if !ok {
		return
	}
	fields, ok := p.fields(w, r)
	if !ok {
		return
	}

	table.StartCreate()
	if fields != nil {
		table.UpdateDraft(fields)
	}
	p.respond(w, r, table)
}

func (p *TablePage[T, ID]) edit(w http.ResponseWriter, r *http.Request) {
	table, ok := p.table(w, r)
	if !ok {
		return
	}
	row, ok := p.row(w, r, table)
	if !ok {
		return
	}
	if err := table.StartEdit(row); err != nil {
		HandleError(w, r, err)
		return
	}
	p.respond(w, r, table)
}

func (p *TablePage[T, ID]) draft(w http.ResponseWriter, r *http.Request) {
	table, ok := p.table(w, r)
	if !ok {
		return
	}
	fields, ok := p.fields(w, r)
	if !ok {
		return
	}
	if fields == nil {
		RespondWithError(w, r, http.StatusBadRequest, domain.CodeBadRequest, "request body is required")
		return
	}

	table.UpdateDraft(fields)
	p.respond(w, r, table)
}

// submit обрабатывает POST /submit: создание или сохранение правки
// в зависимости от режима таблицы
func (p *TablePage[T, ID]) submit(w http.ResponseWriter, r *http.Request) {
	table, ok := p.table(w, r)
	if !ok {
		return
	}
	fields, ok := p.fields(w, r)
	if !ok {
		return
	}
	if fields != nil {
		table.UpdateDraft(fields)
	}

	var err error
	switch table.Mode() {
	case crud.ModeCreate:
		err = table.Create(r.Context())
	case crud.ModeEdit:
		err = table.SaveEdit(r.Context())
	default:
		RespondWithError(w, r, http.StatusBadRequest, domain.CodeBadRequest, "nothing to submit")
		return
	}
	if err != nil {
		HandleError(w, r, err)
		return
	}
	p.respond(w, r, table)
}

func (p *TablePage[T, ID]) cancel(w http.ResponseWriter, r *http.Request) {
	table, ok := p.table(w, r)
	if !ok {
		return
	}
	table.ResetMode()
	p.respond(w, r, table)
}

func (p *TablePage[T, ID]) remove(w http.ResponseWriter, r *http.Request) {
	table, ok := p.table(w, r)
	if !ok {
		return
	}
	row, ok := p.row(w, r, table)
	if !ok {
		return
	}

	ctx := r.Context()
	if confirm, _ := strconv.ParseBool(r.URL.Query().Get("confirm")); confirm {
		ctx = crud.WithConfirmation(ctx)
	}
	if err := table.Remove(ctx, row); err != nil {
		HandleError(w, r, err)
		return
	}
	p.respond(w, r, table)
}

func (p *TablePage[T, ID]) table(w http.ResponseWriter, r *http.Request) (*crud.Table[T, ID], bool) {
	table, err := p.Table(r)
	if err != nil {
		HandleError(w, r, err)
		return nil, false
	}
	return table, true
}

// row находит строку по ?id= или по ?index=. Индекс позволяет адресовать
// строки без id, чтобы их отклонила сама таблица.
func (p *TablePage[T, ID]) row(w http.ResponseWriter, r *http.Request, table *crud.Table[T, ID]) (T, bool) {
	var zero T
	query := r.URL.Query()

	if raw := query.Get("id"); raw != "" {
		id, err := p.ParseID(raw)
		if err != nil {
			RespondWithError(w, r, http.StatusBadRequest, domain.CodeBadRequest, fmt.Sprintf("invalid id %q", raw))
			return zero, false
		}
		row, found := table.Find(id)
		if !found {
			HandleError(w, r, fmt.Errorf("row %q: %w", raw, domain.ErrNotFound))
			return zero, false
		}
		return row, true
	}

	if raw := query.Get("index"); raw != "" {
		index, err := strconv.Atoi(raw)
		if err != nil {
			RespondWithError(w, r, http.StatusBadRequest, domain.CodeBadRequest, fmt.Sprintf("invalid index %q", raw))
			return zero, false
		}
		row, found := table.At(index)
		if !found {
			HandleError(w, r, fmt.Errorf("row #%d: %w", index, domain.ErrNotFound))
			return zero, false
		}
		return row, true
	}

	RespondWithError(w, r, http.StatusBadRequest, domain.CodeBadRequest, "id or index query parameter is required")
	return zero, false
}

func (p *TablePage[T, ID]) fields(w http.ResponseWriter, r *http.Request) (map[string]any, bool) {
	var fields map[string]any
	if _, err := decodeOptional(r, &fields); err != nil {
		RespondWithError(w, r, http.StatusBadRequest, domain.CodeBadRequest, "invalid request body")
		return nil, false
	}
	return fields, true
}

func (p *TablePage[T, ID]) respond(w http.ResponseWriter, r *http.Request, table *crud.Table[T, ID]) {
	if p.View == nil {
		RespondWithJSON(w, r, http.StatusOK, table.Snapshot())
		return
	}
	view, err := p.View(r, table)
	if err != nil {
		HandleError(w, r, err)
		return
	}
	RespondWithJSON(w, r, http.StatusOK, view)
}

// ParseInt64ID разбирает числовой id
func ParseInt64ID(raw string) (int64, error) {
	return strconv.ParseInt(raw, 10, 64)
}

// ParseStringID принимает id как есть
func ParseStringID(raw string) (string, error) {
	return raw, nil
}
