package main

import (
	"net/http"
	"time"

	"publish3/auth"
	"publish3/config"
	"publish3/models"
	"publish3/storage"
	"publish3/store"

	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func setupPublicationRoutes(router *gin.Engine, st *store.Store, verifier *auth.Verifier, s3Client *s3.Client, cfg *config.Config, log *zap.Logger) {
	rg := router.Group("/publications")

	// Callback des Blockchain-Submitters: meldet das Ergebnis der
	// On-Chain-Transaktion. Gesichert über Shared Secret statt Privy.
	rg.POST("/status/:publication_id", apiKeyAuthMiddleware(cfg), func(c *gin.Context) {
		id, ok := pathUUID(c, "publication_id")
		if !ok {
			return
		}
		var req struct {
			Status          string  `json:"status" binding:"required"`
			TransactionHash *string `json:"transaction_hash"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
			return
		}
		// Der Callback meldet nur den Ausgang des On-Chain-Vorgangs;
		// zurück nach PENDING_ONCHAIN gibt es nicht.
		if req.Status != models.StatusPublished && req.Status != models.StatusFailed {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid status"})
			return
		}
		if err := st.Publications.SetStatus(c.Request.Context(), id, req.Status, req.TransactionHash); err != nil {
			storeError(c, log, err, "publication")
			return
		}
		log.Info("Publication status updated",
			zap.String("publication_id", id.String()),
			zap.String("status", req.Status))
		c.JSON(http.StatusOK, gin.H{"status": "success", "message": "Publication status updated"})
	})

	authed := rg.Group("")
	authed.Use(verifier.Middleware())

	authed.POST("/create", func(c *gin.Context) {
		var req struct {
			Title              string            `json:"title" binding:"required"`
			About              string            `json:"about" binding:"required"`
			Tags               []string          `json:"tags"`
			S3Key              string            `json:"s3key" binding:"required"`
			Price              int64             `json:"price"`
			CitationRoyaltyBps int32             `json:"citation_royalty_bps"`
			Authors            []store.AuthorRef `json:"authors"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
			return
		}
		pub, err := st.Publications.Create(c.Request.Context(), &store.NewPublication{
			UserID:             auth.CallerID(c),
			Title:              req.Title,
			About:              req.About,
			Tags:               req.Tags,
			S3Key:              req.S3Key,
			Price:              req.Price,
			CitationRoyaltyBps: req.CitationRoyaltyBps,
			Authors:            req.Authors,
		})
		if err != nil {
			storeError(c, log, err, "publication")
			return
		}
		newPublicationsCounter.Inc()
		c.JSON(http.StatusCreated, pub)
	})

	authed.GET("/list", func(c *gin.Context) {
		page, limit := pageParams(c)
		var (
			pubs []models.Publication
			err  error
		)
		if status := c.Query("status"); status != "" {
			if !models.ValidStatus(status) {
				c.JSON(http.StatusBadRequest, gin.H{"error": "invalid status"})
				return
			}
			pubs, err = st.Publications.ListByStatus(c.Request.Context(), status, page, limit)
		} else {
			pubs, err = st.Publications.List(c.Request.Context(), page, limit)
		}
		if err != nil {
			storeError(c, log, err, "publication")
			return
		}
		c.JSON(http.StatusOK, pubs)
	})

	authed.GET("/search/title", func(c *gin.Context) {
		q := c.Query("q")
		if q == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "missing query parameter q"})
			return
		}
		page, limit := pageParams(c)
		pubs, err := st.Publications.SearchByTitle(c.Request.Context(), q, page, limit)
		if err != nil {
			storeError(c, log, err, "publication")
			return
		}
		c.JSON(http.StatusOK, pubs)
	})

	authed.GET("/search/tag", func(c *gin.Context) {
		tag := c.Query("tag")
		if tag == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "missing query parameter tag"})
			return
		}
		page, limit := pageParams(c)
		pubs, err := st.Publications.SearchByTag(c.Request.Context(), tag, page, limit)
		if err != nil {
			storeError(c, log, err, "publication")
			return
		}
		c.JSON(http.StatusOK, pubs)
	})

	authed.GET("/user/:user_id", func(c *gin.Context) {
		page, limit := pageParams(c)
		pubs, err := st.Publications.ListByUser(c.Request.Context(), c.Param("user_id"), page, limit)
		if err != nil {
			storeError(c, log, err, "publication")
			return
		}
		c.JSON(http.StatusOK, pubs)
	})

	authed.GET("/author/:author_id", func(c *gin.Context) {
		page, limit := pageParams(c)
		pubs, err := st.Publications.ListForAuthor(c.Request.Context(), c.Param("author_id"), page, limit)
		if err != nil {
			storeError(c, log, err, "publication")
			return
		}
		c.JSON(http.StatusOK, pubs)
	})

	authed.GET("/count", func(c *gin.Context) {
		count, err := st.Publications.Count(c.Request.Context())
		if err != nil {
			storeError(c, log, err, "publication")
			return
		}
		c.JSON(http.StatusOK, gin.H{"count": count})
	})

	authed.GET("/count/user/:user_id", func(c *gin.Context) {
		count, err := st.Publications.CountByUser(c.Request.Context(), c.Param("user_id"))
		if err != nil {
			storeError(c, log, err, "publication")
			return
		}
		c.JSON(http.StatusOK, gin.H{"count": count})
	})

	authed.GET("/:publication_id", func(c *gin.Context) {
		id, ok := pathUUID(c, "publication_id")
		if !ok {
			return
		}
		pub, err := st.Publications.Get(c.Request.Context(), id)
		if err != nil {
			storeError(c, log, err, "publication")
			return
		}
		c.JSON(http.StatusOK, pub)
	})

	authed.GET("/:publication_id/authors", func(c *gin.Context) {
		id, ok := pathUUID(c, "publication_id")
		if !ok {
			return
		}
		details, err := st.Publications.ListAuthors(c.Request.Context(), id)
		if err != nil {
			storeError(c, log, err, "publication")
			return
		}
		c.JSON(http.StatusOK, details)
	})

	authed.GET("/:publication_id/citations", func(c *gin.Context) {
		id, ok := pathUUID(c, "publication_id")
		if !ok {
			return
		}
		citations, err := st.Citations.ListFrom(c.Request.Context(), id)
		if err != nil {
			storeError(c, log, err, "citation")
			return
		}
		c.JSON(http.StatusOK, citations)
	})

	authed.GET("/:publication_id/cited-by", func(c *gin.Context) {
		id, ok := pathUUID(c, "publication_id")
		if !ok {
			return
		}
		pubs, err := st.Publications.CitedBy(c.Request.Context(), id)
		if err != nil {
			storeError(c, log, err, "publication")
			return
		}
		c.JSON(http.StatusOK, pubs)
	})

	// Download läuft über eine zeitlich begrenzte Presigned-URL; die
	// Paper-Bytes selbst gehen nie durch diese API.
	authed.GET("/:publication_id/download", func(c *gin.Context) {
		id, ok := pathUUID(c, "publication_id")
		if !ok {
			return
		}
		pub, err := st.Publications.Get(c.Request.Context(), id)
		if err != nil {
			storeError(c, log, err, "publication")
			return
		}
		ttl := time.Duration(cfg.DownloadURLTTLMinutes) * time.Minute
		url, err := storage.PresignDownload(c.Request.Context(), s3Client, cfg.S3Bucket, pub.S3Key, ttl)
		if err != nil {
			log.Error("Presign failed", zap.String("publication_id", id.String()), zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not create download link"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"url": url, "expires_in_minutes": cfg.DownloadURLTTLMinutes})
	})

	authed.PUT("/:publication_id", func(c *gin.Context) {
		id, ok := pathUUID(c, "publication_id")
		if !ok {
			return
		}
		pub, err := st.Publications.Get(c.Request.Context(), id)
		if err != nil {
			storeError(c, log, err, "publication")
			return
		}
		if pub.UserID != auth.CallerID(c) {
			c.JSON(http.StatusForbidden, gin.H{"error": "cannot update another user's publication"})
			return
		}
		var upd store.PublicationUpdate
		if err := c.ShouldBindJSON(&upd); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
			return
		}
		if err := st.Publications.Update(c.Request.Context(), id, &upd); err != nil {
			storeError(c, log, err, "publication")
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "success", "message": "Publication updated successfully"})
	})

	authed.DELETE("/:publication_id", func(c *gin.Context) {
		id, ok := pathUUID(c, "publication_id")
		if !ok {
			return
		}
		pub, err := st.Publications.Get(c.Request.Context(), id)
		if err != nil {
			storeError(c, log, err, "publication")
			return
		}
		if pub.UserID != auth.CallerID(c) {
			c.JSON(http.StatusForbidden, gin.H{"error": "cannot delete another user's publication"})
			return
		}
		if err := st.Publications.Delete(c.Request.Context(), id); err != nil {
			storeError(c, log, err, "publication")
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "success", "message": "Publication deleted successfully"})
	})
}
