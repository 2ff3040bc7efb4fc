package ui

import (
	"io"
	"net/http"
	"strconv"

	"gosheet/adapters/codec"
	"gosheet/domain/table"
	"gosheet/internal/document"
	"gosheet/internal/errors"
	"gosheet/models"
	"gosheet/ui/middleware"

	"github.com/gin-gonic/gin"
)

type createRequest struct {
	Name   string `json:"name"`
	Format string `json:"format"`
}

type replaceRequest struct {
	Rows [][]string `json:"rows"`
}

type summaryRequest struct {
	Rows []int `json:"rows"`
}

type summaryResponse struct {
	Found   bool    `json:"found"`
	Text    string  `json:"text"`
	Count   int     `json:"count"`
	Sum     float64 `json:"sum"`
	Max     float64 `json:"max"`
	Min     float64 `json:"min"`
	Average float64 `json:"average"`
}

// documentResponse is a document plus the grid view of its table
type documentResponse struct {
	*models.Document
	Grid table.Table `json:"grid,omitempty"`
}

func (s *Server) handleImport(c *gin.Context) {
	header, err := c.FormFile("file")
	if err != nil {
		respondError(c, errors.InvalidInput("multipart field \"file\" is required"))
		return
	}
	if header.Size > MaxUploadBytes {
		respondError(c, errors.InvalidInput("file is too large"))
		return
	}

	f, err := header.Open()
	if err != nil {
		respondError(c, errors.Wrap(err, "failed to open upload"))
		return
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, MaxUploadBytes))
	if err != nil {
		respondError(c, errors.Wrap(err, "failed to read upload"))
		return
	}

	doc, err := s.documents.Import(c.Request.Context(), header.Filename, data)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, doc)
}

func (s *Server) handleCreate(c *gin.Context) {
	var req createRequest
	if err := c.ShouldBindJSON(&req); err != nil && err != io.EOF {
		respondError(c, errors.InvalidInput("invalid JSON body"))
		return
	}

	doc, err := s.documents.Create(c.Request.Context(), req.Name, codec.Format(req.Format))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, doc)
}

func (s *Server) handleList(c *gin.Context) {
	docs, err := s.documents.List(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"documents": docs})
}

func (s *Server) handleGet(c *gin.Context) {
	doc, err := s.documents.Get(c.Request.Context(), middleware.DocumentID(c))
	if err != nil {
		respondError(c, err)
		return
	}

	resp := documentResponse{Document: doc}
	if pad, _ := strconv.ParseBool(c.Query("pad")); pad {
		resp.Grid = table.Pad(doc.Table, s.grid.MinRows, s.grid.MinCols)
	}
	c.JSON(http.StatusOK, resp)
}

func (s *Server) handleReplace(c *gin.Context) {
	var req replaceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, errors.InvalidInput("invalid JSON body"))
		return
	}

	doc, err := s.documents.Replace(c.Request.Context(), middleware.DocumentID(c), table.New(req.Rows...))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, doc)
}

func (s *Server) handleDelete(c *gin.Context) {
	id := middleware.DocumentID(c)
	if err := s.documents.Delete(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	if s.assistant != nil {
		s.assistant.Cancel(id)
		s.assistant.Forget(id)
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) handleExport(c *gin.Context) {
	exp, err := s.documents.Export(c.Request.Context(), middleware.DocumentID(c), c.Query("format"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.Header("Content-Disposition", "attachment; filename=\""+exp.Name+"\"")
	c.Data(http.StatusOK, exp.MIMEType, exp.Data)
}

func (s *Server) handleQuery(c *gin.Context) {
	var req document.QueryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, errors.InvalidInput("invalid JSON body"))
		return
	}

	res, err := s.documents.Query(c.Request.Context(), middleware.DocumentID(c), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

func (s *Server) handleSummary(c *gin.Context) {
	var req summaryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, errors.InvalidInput("invalid JSON body"))
		return
	}

	summary, ok, err := s.documents.Summary(c.Request.Context(), middleware.DocumentID(c), req.Rows)
	if err != nil {
		respondError(c, err)
		return
	}
	if !ok {
		c.JSON(http.StatusOK, summaryResponse{Text: "No numbers found in the selected rows"})
		return
	}
	c.JSON(http.StatusOK, summaryResponse{
		Found:   true,
		Text:    summary.String(),
		Count:   summary.Count,
		Sum:     summary.Sum,
		Max:     summary.Max,
		Min:     summary.Min,
		Average: summary.Mean,
	})
}
