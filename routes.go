package main

import (
	"errors"
	"net/http"
	"strconv"

	"publish3/store"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// pageParams liest page/limit aus der Query; die Defaults setzt der Store.
func pageParams(c *gin.Context) (int64, int64) {
	page, _ := strconv.ParseInt(c.DefaultQuery("page", "1"), 10, 64)
	limit, _ := strconv.ParseInt(c.DefaultQuery("limit", "20"), 10, 64)
	return page, limit
}

// pathUUID parst einen UUID-Pfadparameter oder beantwortet die Anfrage
// mit 400. Der zweite Rückgabewert meldet Erfolg.
func pathUUID(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid " + name})
		return uuid.Nil, false
	}
	return id, true
}

// storeError übersetzt die Fehlertaxonomie des Stores in HTTP-Antworten.
// Constraint-Verletzungen sind Client-Fehler und werden nie wiederholt.
func storeError(c *gin.Context, log *zap.Logger, err error, entity string) {
	switch {
	case errors.Is(err, store.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": entity + " not found"})
	case store.IsDuplicate(err):
		var ce *store.ConstraintError
		errors.As(err, &ce)
		c.JSON(http.StatusConflict, gin.H{"error": entity + " already exists", "constraint": ce.Constraint})
	case store.IsForeignKey(err):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "referenced resource does not exist"})
	case store.IsCheck(err):
		var ce *store.ConstraintError
		errors.As(err, &ce)
		c.JSON(http.StatusBadRequest, gin.H{"error": "value out of range", "constraint": ce.Constraint})
	default:
		log.Error("Database operation failed", zap.String("entity", entity), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "database error"})
	}
}
