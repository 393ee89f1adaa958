package main

import (
	"net/http"

	"publish3/auth"
	"publish3/store"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

func setupCitationRoutes(router *gin.Engine, st *store.Store, verifier *auth.Verifier, log *zap.Logger) {
	rg := router.Group("/citations")
	rg.Use(verifier.Middleware())

	rg.POST("/create", func(c *gin.Context) {
		var req struct {
			CitingPublicationID uuid.UUID `json:"citing_publication_id" binding:"required"`
			CitedPublicationID  uuid.UUID `json:"cited_publication_id" binding:"required"`
			CitationContext     *string   `json:"citation_context"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
			return
		}
		citation, err := st.Citations.Create(c.Request.Context(), &store.NewCitation{
			CitingPublicationID: req.CitingPublicationID,
			CitedPublicationID:  req.CitedPublicationID,
			CitationContext:     req.CitationContext,
		})
		if err != nil {
			storeError(c, log, err, "citation")
			return
		}
		c.JSON(http.StatusCreated, citation)
	})

	rg.GET("/list", func(c *gin.Context) {
		page, limit := pageParams(c)
		citations, err := st.Citations.List(c.Request.Context(), page, limit)
		if err != nil {
			storeError(c, log, err, "citation")
			return
		}
		c.JSON(http.StatusOK, citations)
	})

	rg.GET("/by-publications", func(c *gin.Context) {
		citing, err := uuid.Parse(c.Query("citing_publication_id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid citing_publication_id"})
			return
		}
		cited, err := uuid.Parse(c.Query("cited_publication_id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid cited_publication_id"})
			return
		}
		citation, err := st.Citations.GetByPublications(c.Request.Context(), citing, cited)
		if err != nil {
			storeError(c, log, err, "citation")
			return
		}
		c.JSON(http.StatusOK, citation)
	})

	rg.GET("/count", func(c *gin.Context) {
		count, err := st.Citations.Count(c.Request.Context())
		if err != nil {
			storeError(c, log, err, "citation")
			return
		}
		c.JSON(http.StatusOK, gin.H{"count": count})
	})

	rg.GET("/count/from/:publication_id", func(c *gin.Context) {
		id, ok := pathUUID(c, "publication_id")
		if !ok {
			return
		}
		count, err := st.Citations.CountFrom(c.Request.Context(), id)
		if err != nil {
			storeError(c, log, err, "citation")
			return
		}
		c.JSON(http.StatusOK, gin.H{"count": count})
	})

	rg.GET("/count/to/:publication_id", func(c *gin.Context) {
		id, ok := pathUUID(c, "publication_id")
		if !ok {
			return
		}
		count, err := st.Citations.CountTo(c.Request.Context(), id)
		if err != nil {
			storeError(c, log, err, "citation")
			return
		}
		c.JSON(http.StatusOK, gin.H{"count": count})
	})

	rg.GET("/:citation_id", func(c *gin.Context) {
		id, ok := pathUUID(c, "citation_id")
		if !ok {
			return
		}
		citation, err := st.Citations.Get(c.Request.Context(), id)
		if err != nil {
			storeError(c, log, err, "citation")
			return
		}
		c.JSON(http.StatusOK, citation)
	})

	rg.PUT("/:citation_id", func(c *gin.Context) {
		id, ok := pathUUID(c, "citation_id")
		if !ok {
			return
		}
		var req struct {
			CitationContext *string `json:"citation_context"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
			return
		}
		if err := st.Citations.UpdateContext(c.Request.Context(), id, req.CitationContext); err != nil {
			storeError(c, log, err, "citation")
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "success", "message": "Citation updated successfully"})
	})

	rg.DELETE("/by-publications", func(c *gin.Context) {
		citing, err := uuid.Parse(c.Query("citing_publication_id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid citing_publication_id"})
			return
		}
		cited, err := uuid.Parse(c.Query("cited_publication_id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid cited_publication_id"})
			return
		}
		if err := st.Citations.DeleteByPublications(c.Request.Context(), citing, cited); err != nil {
			storeError(c, log, err, "citation")
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "success", "message": "Citation deleted successfully"})
	})

	rg.DELETE("/:citation_id", func(c *gin.Context) {
		id, ok := pathUUID(c, "citation_id")
		if !ok {
			return
		}
		if err := st.Citations.Delete(c.Request.Context(), id); err != nil {
			storeError(c, log, err, "citation")
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "success", "message": "Citation deleted successfully"})
	})
}
