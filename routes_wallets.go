package main

import (
	"net/http"
	"strings"

	"publish3/auth"
	"publish3/store"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func setupWalletRoutes(router *gin.Engine, st *store.Store, verifier *auth.Verifier, log *zap.Logger) {
	rg := router.Group("/wallets")
	rg.Use(verifier.Middleware())

	// Provisionierung: Privy-Wallet registrieren und mit dem Aufrufer
	// verknüpfen. Das erste verknüpfte Wallet wird automatisch primär.
	rg.POST("/create", func(c *gin.Context) {
		var req store.NewWallet
		if err := c.ShouldBindJSON(&req); err != nil || req.WalletID == "" || req.WalletAddress == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
			return
		}
		wallet, err := st.Wallets.Create(c.Request.Context(), &req)
		if err != nil {
			storeError(c, log, err, "wallet")
			return
		}
		link, err := st.Wallets.Link(c.Request.Context(), auth.CallerID(c), wallet.WalletID)
		if err != nil {
			storeError(c, log, err, "wallet link")
			return
		}
		c.JSON(http.StatusCreated, gin.H{"wallet": wallet, "is_primary": link.IsPrimary})
	})

	// Bestehendes Wallet zusätzlich mit dem Aufrufer verknüpfen
	rg.POST("/link", func(c *gin.Context) {
		var req struct {
			WalletID string `json:"wallet_id" binding:"required"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
			return
		}
		link, err := st.Wallets.Link(c.Request.Context(), auth.CallerID(c), req.WalletID)
		if err != nil {
			storeError(c, log, err, "wallet link")
			return
		}
		c.JSON(http.StatusCreated, link)
	})

	rg.PUT("/primary", func(c *gin.Context) {
		var req struct {
			WalletID string `json:"wallet_id" binding:"required"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
			return
		}
		if err := st.Wallets.SetPrimary(c.Request.Context(), auth.CallerID(c), req.WalletID); err != nil {
			storeError(c, log, err, "wallet link")
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "success", "message": "Primary wallet updated"})
	})

	rg.GET("/me", func(c *gin.Context) {
		wallets, err := st.Wallets.ListByUser(c.Request.Context(), auth.CallerID(c))
		if err != nil {
			storeError(c, log, err, "wallet")
			return
		}
		c.JSON(http.StatusOK, wallets)
	})

	rg.GET("/me/primary", func(c *gin.Context) {
		wallet, err := st.Wallets.Primary(c.Request.Context(), auth.CallerID(c))
		if err != nil {
			storeError(c, log, err, "primary wallet")
			return
		}
		c.JSON(http.StatusOK, wallet)
	})

	// Schneller Lookup nur der On-Chain-Adresse, z.B. für Royalty-Payouts
	rg.GET("/address/:wallet_id", func(c *gin.Context) {
		address, err := st.Wallets.Address(c.Request.Context(), c.Param("wallet_id"))
		if err != nil {
			storeError(c, log, err, "wallet")
			return
		}
		c.JSON(http.StatusOK, gin.H{"wallet_address": address})
	})

	// Primär-Wallets mehrerer Nutzer in einem Aufruf, für die
	// Royalty-Verteilung über alle Autoren einer Publikation
	rg.GET("/primary/batch", func(c *gin.Context) {
		raw := c.Query("user_ids")
		if raw == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "user_ids query parameter is required"})
			return
		}
		wallets, err := st.Wallets.PrimaryWallets(c.Request.Context(), strings.Split(raw, ","))
		if err != nil {
			storeError(c, log, err, "wallet")
			return
		}
		c.JSON(http.StatusOK, wallets)
	})

	rg.GET("/:wallet_id", func(c *gin.Context) {
		wallet, err := st.Wallets.Get(c.Request.Context(), c.Param("wallet_id"))
		if err != nil {
			storeError(c, log, err, "wallet")
			return
		}
		c.JSON(http.StatusOK, wallet)
	})

	rg.DELETE("/link/:wallet_id", func(c *gin.Context) {
		if err := st.Wallets.Unlink(c.Request.Context(), auth.CallerID(c), c.Param("wallet_id")); err != nil {
			storeError(c, log, err, "wallet link")
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "success", "message": "Wallet unlinked"})
	})
}
