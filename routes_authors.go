package main

import (
	"net/http"

	"publish3/auth"
	"publish3/store"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func setupAuthorRoutes(router *gin.Engine, st *store.Store, verifier *auth.Verifier, log *zap.Logger) {
	rg := router.Group("/authors")
	rg.Use(verifier.Middleware())

	// Autorenprofil ist immer das des Aufrufers; die privy_id kommt aus
	// dem Token, nie aus dem Body.
	rg.POST("/create", func(c *gin.Context) {
		var req struct {
			Name        string `json:"name" binding:"required"`
			Email       string `json:"email" binding:"required,email"`
			Affiliation string `json:"affiliation"`
			WalletID    string `json:"wallet_id" binding:"required"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
			return
		}
		author, err := st.Authors.Create(c.Request.Context(), &store.NewAuthor{
			PrivyID:     auth.CallerID(c),
			Name:        req.Name,
			Email:       req.Email,
			Affiliation: req.Affiliation,
			WalletID:    req.WalletID,
		})
		if err != nil {
			storeError(c, log, err, "author")
			return
		}
		c.JSON(http.StatusCreated, author)
	})

	rg.GET("/list", func(c *gin.Context) {
		page, limit := pageParams(c)
		authors, err := st.Authors.List(c.Request.Context(), page, limit)
		if err != nil {
			storeError(c, log, err, "author")
			return
		}
		c.JSON(http.StatusOK, authors)
	})

	rg.GET("/count", func(c *gin.Context) {
		count, err := st.Authors.Count(c.Request.Context())
		if err != nil {
			storeError(c, log, err, "author")
			return
		}
		c.JSON(http.StatusOK, gin.H{"count": count})
	})

	rg.GET("/:privy_id", func(c *gin.Context) {
		author, err := st.Authors.GetWithWallet(c.Request.Context(), c.Param("privy_id"))
		if err != nil {
			storeError(c, log, err, "author")
			return
		}
		c.JSON(http.StatusOK, author)
	})

	rg.PUT("/:privy_id", func(c *gin.Context) {
		privyID := c.Param("privy_id")
		if privyID != auth.CallerID(c) {
			c.JSON(http.StatusForbidden, gin.H{"error": "cannot update another author"})
			return
		}
		var upd store.AuthorUpdate
		if err := c.ShouldBindJSON(&upd); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
			return
		}
		if err := st.Authors.Update(c.Request.Context(), privyID, &upd); err != nil {
			storeError(c, log, err, "author")
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "success", "message": "Author updated successfully"})
	})

	rg.DELETE("/:privy_id", func(c *gin.Context) {
		privyID := c.Param("privy_id")
		if privyID != auth.CallerID(c) {
			c.JSON(http.StatusForbidden, gin.H{"error": "cannot delete another author"})
			return
		}
		if err := st.Authors.Delete(c.Request.Context(), privyID); err != nil {
			storeError(c, log, err, "author")
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "success", "message": "Author deleted successfully"})
	})
}
