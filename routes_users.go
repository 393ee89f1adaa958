package main

import (
	"io"
	"net/http"
	"strings"
	"time"

	"publish3/auth"
	"publish3/config"
	"publish3/storage"
	"publish3/store"

	awss3 "github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func setupUserRoutes(router *gin.Engine, st *store.Store, verifier *auth.Verifier, s3Client *awss3.Client, cfg *config.Config, log *zap.Logger) {
	rg := router.Group("/users")
	rg.Use(verifier.Middleware())

	rg.POST("/create", func(c *gin.Context) {
		var req struct {
			Username  string `json:"username" binding:"required"`
			Email     string `json:"email" binding:"required,email"`
			FullName  string `json:"full_name"`
			AvatarKey string `json:"avatar_s3key"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
			return
		}
		user, err := st.Users.Create(c.Request.Context(), &store.NewUser{
			PrivyID:     auth.CallerID(c),
			Username:    req.Username,
			Email:       req.Email,
			FullName:    req.FullName,
			AvatarS3Key: req.AvatarKey,
		})
		if err != nil {
			storeError(c, log, err, "user")
			return
		}
		c.JSON(http.StatusCreated, user)
	})

	// Login-Flow: legt den Nutzer beim ersten Sign-In mit generierten
	// Platzhalter-Stammdaten an, danach ist der Aufruf idempotent. Das
	// Upsert im Store vermeidet das Rennen zwischen Lookup und Insert
	// bei parallelen Logins desselben Accounts.
	rg.POST("/privy/sign-in", func(c *gin.Context) {
		privyID := auth.CallerID(c)
		handle := strings.ToLower(privyID)
		if len(handle) > 10 {
			handle = handle[:10]
		}
		user, created, err := st.Users.GetOrCreate(c.Request.Context(), &store.NewUser{
			PrivyID:  privyID,
			Username: "user_" + handle,
			Email:    handle + "@privy.user",
			FullName: "Privy User",
		})
		if err != nil {
			storeError(c, log, err, "user")
			return
		}
		author, _ := st.Authors.Get(c.Request.Context(), privyID)
		status := http.StatusOK
		if created {
			status = http.StatusCreated
		}
		c.JSON(status, gin.H{"user": user, "author": author, "is_new_user": created})
	})

	rg.GET("/list", func(c *gin.Context) {
		page, limit := pageParams(c)
		users, err := st.Users.List(c.Request.Context(), page, limit)
		if err != nil {
			storeError(c, log, err, "user")
			return
		}
		c.JSON(http.StatusOK, users)
	})

	rg.GET("/count", func(c *gin.Context) {
		count, err := st.Users.Count(c.Request.Context())
		if err != nil {
			storeError(c, log, err, "user")
			return
		}
		c.JSON(http.StatusOK, gin.H{"count": count})
	})

	// Verfügbarkeitsprüfung für das Registrierungsformular
	rg.GET("/check", func(c *gin.Context) {
		resp := gin.H{}
		if username := c.Query("username"); username != "" {
			taken, err := st.Users.UsernameExists(c.Request.Context(), username)
			if err != nil {
				storeError(c, log, err, "user")
				return
			}
			resp["username_taken"] = taken
		}
		if email := c.Query("email"); email != "" {
			taken, err := st.Users.EmailExists(c.Request.Context(), email)
			if err != nil {
				storeError(c, log, err, "user")
				return
			}
			resp["email_taken"] = taken
		}
		c.JSON(http.StatusOK, resp)
	})

	rg.GET("/username/:username", func(c *gin.Context) {
		user, err := st.Users.GetByUsername(c.Request.Context(), c.Param("username"))
		if err != nil {
			storeError(c, log, err, "user")
			return
		}
		c.JSON(http.StatusOK, user)
	})

	rg.GET("/by-email", func(c *gin.Context) {
		email := c.Query("email")
		if email == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "email query parameter is required"})
			return
		}
		user, err := st.Users.GetByEmail(c.Request.Context(), email)
		if err != nil {
			storeError(c, log, err, "user")
			return
		}
		c.JSON(http.StatusOK, user)
	})

	// Avatar-Upload: die Datei landet unter avatars/<privy_id> im
	// Paper-Bucket, der Key wird am User gespeichert.
	rg.POST("/avatar", func(c *gin.Context) {
		privyID := auth.CallerID(c)
		file, _, err := c.Request.FormFile("avatar")
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "avatar file is required"})
			return
		}
		defer file.Close()
		data, err := io.ReadAll(file)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "could not read avatar file"})
			return
		}
		key := "avatars/" + privyID
		if err := storage.UploadFile(c.Request.Context(), s3Client, cfg.S3Bucket, key, data); err != nil {
			log.Error("Avatar-Upload fehlgeschlagen", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "upload failed"})
			return
		}
		if err := st.Users.Update(c.Request.Context(), privyID, &store.UserUpdate{AvatarS3Key: &key}); err != nil {
			storeError(c, log, err, "user")
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "success", "avatar_s3key": key})
	})

	rg.GET("/avatar/:privy_id", func(c *gin.Context) {
		user, err := st.Users.Get(c.Request.Context(), c.Param("privy_id"))
		if err != nil {
			storeError(c, log, err, "user")
			return
		}
		if user.AvatarS3Key == nil || *user.AvatarS3Key == "" {
			c.Status(http.StatusNoContent)
			return
		}
		ttl := time.Duration(cfg.DownloadURLTTLMinutes) * time.Minute
		url, err := storage.PresignDownload(c.Request.Context(), s3Client, cfg.S3Bucket, *user.AvatarS3Key, ttl)
		if err != nil {
			log.Error("Presign für Avatar fehlgeschlagen", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not create download url"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"download_url": url})
	})

	rg.GET("/:privy_id", func(c *gin.Context) {
		user, err := st.Users.Get(c.Request.Context(), c.Param("privy_id"))
		if err != nil {
			storeError(c, log, err, "user")
			return
		}
		c.JSON(http.StatusOK, user)
	})

	rg.PUT("/:privy_id", func(c *gin.Context) {
		privyID := c.Param("privy_id")
		if privyID != auth.CallerID(c) {
			c.JSON(http.StatusForbidden, gin.H{"error": "cannot update another user"})
			return
		}
		var upd store.UserUpdate
		if err := c.ShouldBindJSON(&upd); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
			return
		}
		if err := st.Users.Update(c.Request.Context(), privyID, &upd); err != nil {
			storeError(c, log, err, "user")
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "success", "message": "User updated successfully"})
	})

	rg.DELETE("/:privy_id", func(c *gin.Context) {
		privyID := c.Param("privy_id")
		if privyID != auth.CallerID(c) {
			c.JSON(http.StatusForbidden, gin.H{"error": "cannot delete another user"})
			return
		}
		if err := st.Users.Delete(c.Request.Context(), privyID); err != nil {
			storeError(c, log, err, "user")
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "success", "message": "User deleted successfully"})
	})
}
