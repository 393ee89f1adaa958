package main

import (
	"net/http"

	"publish3/auth"
	"publish3/store"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

func setupPublicationAuthorRoutes(router *gin.Engine, st *store.Store, verifier *auth.Verifier, log *zap.Logger) {
	rg := router.Group("/publication-authors")
	rg.Use(verifier.Middleware())

	// Autorenlisten dürfen nur vom Besitzer der Publikation geändert werden.
	requireOwner := func(c *gin.Context, publicationID uuid.UUID) bool {
		pub, err := st.Publications.Get(c.Request.Context(), publicationID)
		if err != nil {
			storeError(c, log, err, "publication")
			return false
		}
		if pub.UserID != auth.CallerID(c) {
			c.JSON(http.StatusForbidden, gin.H{"error": "cannot modify another user's publication"})
			return false
		}
		return true
	}

	rg.POST("/add", func(c *gin.Context) {
		var req struct {
			PublicationID uuid.UUID `json:"publication_id" binding:"required"`
			AuthorID      string    `json:"author_id" binding:"required"`
			AuthorOrder   int32     `json:"author_order"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
			return
		}
		if !requireOwner(c, req.PublicationID) {
			return
		}
		err := st.Publications.AddAuthor(c.Request.Context(), req.PublicationID, store.AuthorRef{
			AuthorID:    req.AuthorID,
			AuthorOrder: req.AuthorOrder,
		})
		if err != nil {
			storeError(c, log, err, "publication author")
			return
		}
		c.JSON(http.StatusCreated, gin.H{"status": "success", "message": "Author added to publication"})
	})

	// Komplettersatz der Autorenliste, z.B. nach dem Umordnen im Editor
	rg.POST("/set", func(c *gin.Context) {
		var req struct {
			PublicationID uuid.UUID         `json:"publication_id" binding:"required"`
			Authors       []store.AuthorRef `json:"authors" binding:"required"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
			return
		}
		if !requireOwner(c, req.PublicationID) {
			return
		}
		if err := st.Publications.SetAuthors(c.Request.Context(), req.PublicationID, req.Authors); err != nil {
			storeError(c, log, err, "publication author")
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "success", "message": "Author list replaced"})
	})

	rg.GET("/has-author", func(c *gin.Context) {
		publicationID, err := uuid.Parse(c.Query("publication_id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid publication_id"})
			return
		}
		authorID := c.Query("author_id")
		if authorID == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "missing author_id"})
			return
		}
		has, err := st.Publications.HasAuthor(c.Request.Context(), publicationID, authorID)
		if err != nil {
			storeError(c, log, err, "publication author")
			return
		}
		c.JSON(http.StatusOK, gin.H{"has_author": has})
	})

	rg.PUT("/order", func(c *gin.Context) {
		var req struct {
			PublicationID uuid.UUID `json:"publication_id" binding:"required"`
			AuthorID      string    `json:"author_id" binding:"required"`
			AuthorOrder   int32     `json:"author_order"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
			return
		}
		if !requireOwner(c, req.PublicationID) {
			return
		}
		if err := st.Publications.UpdateAuthorOrder(c.Request.Context(), req.PublicationID, req.AuthorID, req.AuthorOrder); err != nil {
			storeError(c, log, err, "publication author")
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "success", "message": "Author order updated"})
	})

	rg.DELETE("/remove", func(c *gin.Context) {
		publicationID, err := uuid.Parse(c.Query("publication_id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid publication_id"})
			return
		}
		authorID := c.Query("author_id")
		if authorID == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "missing author_id"})
			return
		}
		if !requireOwner(c, publicationID) {
			return
		}
		if err := st.Publications.RemoveAuthor(c.Request.Context(), publicationID, authorID); err != nil {
			storeError(c, log, err, "publication author")
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "success", "message": "Author removed from publication"})
	})

	rg.GET("/publication/:publication_id", func(c *gin.Context) {
		id, ok := pathUUID(c, "publication_id")
		if !ok {
			return
		}
		details, err := st.Publications.ListAuthors(c.Request.Context(), id)
		if err != nil {
			storeError(c, log, err, "publication author")
			return
		}
		c.JSON(http.StatusOK, details)
	})

	rg.GET("/author/:author_id", func(c *gin.Context) {
		page, limit := pageParams(c)
		pubs, err := st.Publications.ListForAuthor(c.Request.Context(), c.Param("author_id"), page, limit)
		if err != nil {
			storeError(c, log, err, "publication author")
			return
		}
		c.JSON(http.StatusOK, pubs)
	})
}
