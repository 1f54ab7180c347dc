package handlers

import (
	"strconv"

	"github.com/wavecast/wavecast/internal/http/response"
	"github.com/wavecast/wavecast/internal/service"

	"github.com/gin-gonic/gin"
)

// CreateAudio 上传音频
func (h *Handler) CreateAudio(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		response.Unauthorized(c, "Unauthorized request!")
		return
	}

	file, err := c.FormFile("file")
	if err != nil {
		response.UnprocessableEntity(c, "Audio file is missing!")
		return
	}
	poster, err := c.FormFile("poster")
	if err != nil {
		poster = nil
	}

	audio, err := h.AudioService.Create(userID, service.CreateAudioInput{
		Title:    c.PostForm("title"),
		About:    c.PostForm("about"),
		Category: c.PostForm("category"),
		File:     file,
		Poster:   poster,
	})
	if err != nil {
		respondWithMappedError(c, err, audioErrorRules)
		return
	}
	response.Created(c, gin.H{"audio": audio})
}

// ListAudios 最新音频列表
func (h *Handler) ListAudios(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	audios, err := h.AudioService.ListRecent(limit, offset)
	if err != nil {
		respondWithMappedError(c, err, audioErrorRules)
		return
	}
	response.OK(c, gin.H{"audios": audios})
}

// GetAudio 获取单个音频
func (h *Handler) GetAudio(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		response.UnprocessableEntity(c, "Invalid request!")
		return
	}
	audio, err := h.AudioService.Get(id)
	if err != nil {
		respondWithMappedError(c, err, audioErrorRules)
		return
	}
	response.OK(c, gin.H{"audio": audio})
}

// ListMyAudios 当前用户上传的音频
func (h *Handler) ListMyAudios(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		response.Unauthorized(c, "Unauthorized request!")
		return
	}
	audios, err := h.AudioService.ListByOwner(userID)
	if err != nil {
		respondWithMappedError(c, err, audioErrorRules)
		return
	}
	response.OK(c, gin.H{"audios": audios})
}

// ToggleAudioLike 切换点赞
func (h *Handler) ToggleAudioLike(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		response.Unauthorized(c, "Unauthorized request!")
		return
	}
	id, ok := paramID(c)
	if !ok {
		response.UnprocessableEntity(c, "Invalid request!")
		return
	}
	liked, err := h.AudioService.ToggleLike(id, userID)
	if err != nil {
		respondWithMappedError(c, err, audioErrorRules)
		return
	}
	response.OK(c, gin.H{"liked": liked})
}

// ToggleAudioFavorite 切换收藏
func (h *Handler) ToggleAudioFavorite(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		response.Unauthorized(c, "Unauthorized request!")
		return
	}
	id, ok := paramID(c)
	if !ok {
		response.UnprocessableEntity(c, "Invalid request!")
		return
	}
	favorited, err := h.AudioService.ToggleFavorite(userID, id)
	if err != nil {
		respondWithMappedError(c, err, audioErrorRules)
		return
	}
	response.OK(c, gin.H{"favorited": favorited})
}

// ListFavorites 当前用户收藏列表
func (h *Handler) ListFavorites(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		response.Unauthorized(c, "Unauthorized request!")
		return
	}
	audios, err := h.AudioService.ListFavorites(userID)
	if err != nil {
		respondWithMappedError(c, err, audioErrorRules)
		return
	}
	response.OK(c, gin.H{"audios": audios})
}

func paramID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return 0, false
	}
	return uint(id), true
}
