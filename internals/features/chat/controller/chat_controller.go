package controller

import (
	"encoding/json"
	"errors"
	"strings"
	"time"

	validator "github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	dto "shutterhub_backend/internals/features/chat/dto"
	"shutterhub_backend/internals/features/chat/model"
	"shutterhub_backend/internals/features/chat/service"
	helper "shutterhub_backend/internals/helpers"
	"shutterhub_backend/internals/realtime"
)

type ChatController struct {
	DB        *gorm.DB
	Service   *service.ChatService
	Hub       *realtime.Hub
	Validator *validator.Validate
}

func NewChatController(db *gorm.DB, hub *realtime.Hub) *ChatController {
	return &ChatController{
		DB:        db,
		Service:   service.NewChatService(db),
		Hub:       hub,
		Validator: validator.New(),
	}
}

func (ctl *ChatController) chatError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, service.ErrGroupNotFound):
		return helper.JsonError(c, fiber.StatusNotFound, "Group not found")
	case errors.Is(err, service.ErrNotMember):
		return helper.JsonError(c, fiber.StatusForbidden, "Not a member of this group")
	case errors.Is(err, service.ErrOwnerCannotLeave):
		return helper.JsonError(c, fiber.StatusUnprocessableEntity, "Group owner cannot leave, delete the group instead")
	case errors.Is(err, service.ErrNotGroupOwner):
		return helper.JsonError(c, fiber.StatusForbidden, "Only the group owner may do this")
	}
	return helper.JsonError(c, fiber.StatusInternalServerError, err.Error())
}

func parseParamUUID(c *fiber.Ctx, name string) (uuid.UUID, error) {
	return uuid.Parse(c.Params(name))
}

// POST /api/u/chat/groups
func (ctl *ChatController) CreateGroup(c *fiber.Ctx) error {
	userID, err := helper.GetUserUUID(c)
	if err != nil {
		return helper.JsonError(c, fiber.StatusUnauthorized, "Unauthorized")
	}

	var req dto.CreateGroupRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid payload")
	}
	if err := ctl.Validator.Struct(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, err.Error())
	}

	group := model.ChatGroup{
		ChatGroupName:        strings.TrimSpace(req.Name),
		ChatGroupDescription: strings.TrimSpace(req.Description),
		ChatGroupImageURL:    req.ImageURL,
		ChatGroupOwnerID:     userID,
	}
	if err := ctl.Service.CreateGroup(&group); err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, err.Error())
	}
	return helper.JsonCreated(c, "Group created", dto.FromModelGroup(&group))
}

// GET /api/u/chat/groups
func (ctl *ChatController) ListMyGroups(c *fiber.Ctx) error {
	userID, err := helper.GetUserUUID(c)
	if err != nil {
		return helper.JsonError(c, fiber.StatusUnauthorized, "Unauthorized")
	}
	paging := helper.ResolvePaging(c, 20, 100)

	groups, total, err := ctl.Service.ListMyGroups(userID, paging.Page, paging.PerPage)
	if err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, err.Error())
	}

	items := make([]dto.GroupResponse, 0, len(groups))
	for i := range groups {
		items = append(items, dto.FromModelGroup(&groups[i]))
	}
	return helper.JsonList(c, "ok", items, helper.BuildPaginationFromPage(total, paging.Page, paging.PerPage))
}

// POST /api/u/chat/groups/:group_id/join
func (ctl *ChatController) Join(c *fiber.Ctx) error {
	userID, err := helper.GetUserUUID(c)
	if err != nil {
		return helper.JsonError(c, fiber.StatusUnauthorized, "Unauthorized")
	}
	groupID, err := parseParamUUID(c, "group_id")
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid group_id")
	}

	if err := ctl.Service.Join(groupID, userID); err != nil {
		return ctl.chatError(c, err)
	}
	return helper.JsonOK(c, "Joined group", fiber.Map{"group_id": groupID})
}

// POST /api/u/chat/groups/:group_id/leave
func (ctl *ChatController) Leave(c *fiber.Ctx) error {
	userID, err := helper.GetUserUUID(c)
	if err != nil {
		return helper.JsonError(c, fiber.StatusUnauthorized, "Unauthorized")
	}
	groupID, err := parseParamUUID(c, "group_id")
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid group_id")
	}

	if err := ctl.Service.Leave(groupID, userID); err != nil {
		return ctl.chatError(c, err)
	}
	return helper.JsonOK(c, "Left group", fiber.Map{"group_id": groupID})
}

// DELETE /api/u/chat/groups/:group_id
func (ctl *ChatController) DeleteGroup(c *fiber.Ctx) error {
	userID, err := helper.GetUserUUID(c)
	if err != nil {
		return helper.JsonError(c, fiber.StatusUnauthorized, "Unauthorized")
	}
	groupID, err := parseParamUUID(c, "group_id")
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid group_id")
	}

	if err := ctl.Service.DeleteGroup(groupID, userID); err != nil {
		return ctl.chatError(c, err)
	}
	return helper.JsonDeleted(c, "Group deleted", fiber.Map{"group_id": groupID})
}

// GET /api/u/chat/groups/:group_id/messages — newest first
func (ctl *ChatController) ListMessages(c *fiber.Ctx) error {
	userID, err := helper.GetUserUUID(c)
	if err != nil {
		return helper.JsonError(c, fiber.StatusUnauthorized, "Unauthorized")
	}
	groupID, err := parseParamUUID(c, "group_id")
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid group_id")
	}
	paging := helper.ResolvePaging(c, 50, 200)

	msgs, total, err := ctl.Service.ListMessages(groupID, userID, paging.Page, paging.PerPage)
	if err != nil {
		return ctl.chatError(c, err)
	}

	items := make([]dto.MessageResponse, 0, len(msgs))
	for i := range msgs {
		items = append(items, dto.FromModelMessage(&msgs[i]))
	}
	return helper.JsonList(c, "ok", items, helper.BuildPaginationFromPage(total, paging.Page, paging.PerPage))
}

// POST /api/u/chat/groups/:group_id/messages
//
// The row is the durable write; the websocket fan-out happens after commit,
// so a member whose socket missed the frame still sees the message on the
// next history fetch.
func (ctl *ChatController) SendMessage(c *fiber.Ctx) error {
	userID, err := helper.GetUserUUID(c)
	if err != nil {
		return helper.JsonError(c, fiber.StatusUnauthorized, "Unauthorized")
	}
	groupID, err := parseParamUUID(c, "group_id")
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid group_id")
	}

	var req dto.SendMessageRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid payload")
	}
	if err := ctl.Validator.Struct(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, err.Error())
	}

	msg := &model.ChatMessage{
		ChatMessageGroupID:        groupID,
		ChatMessageSenderID:       userID,
		ChatMessageBody:           strings.TrimSpace(req.Body),
		ChatMessageAttachmentURL:  req.AttachmentURL,
		ChatMessageAttachmentType: req.AttachmentType,
	}

	saved, err := ctl.Service.SendMessage(msg)
	if err != nil {
		return ctl.chatError(c, err)
	}

	resp := dto.FromModelMessage(saved)
	ctl.fanout(groupID, saved, &resp)

	return helper.JsonCreated(c, "Message sent", resp)
}

func (ctl *ChatController) fanout(groupID uuid.UUID, msg *model.ChatMessage, resp *dto.MessageResponse) {
	if ctl.Hub == nil {
		return
	}
	data, err := json.Marshal(resp)
	if err != nil {
		return
	}
	senderName := ""
	if msg.Sender != nil {
		senderName = msg.Sender.UserName
	}
	ctl.Hub.Broadcast(&realtime.Event{
		Type:      realtime.EventChatMessage,
		Room:      groupID.String(),
		SenderID:  msg.ChatMessageSenderID.String(),
		Sender:    senderName,
		MessageID: msg.ChatMessageID.String(),
		Data:      data,
		Timestamp: time.Now(),
	})
}
