package service

import (
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"shutterhub_backend/internals/features/chat/model"
)

var (
	ErrGroupNotFound    = errors.New("chat group not found")
	ErrNotMember        = errors.New("user is not a member of this group")
	ErrOwnerCannotLeave = errors.New("group owner cannot leave, delete the group instead")
	ErrNotGroupOwner    = errors.New("only the group owner may do this")
)

type ChatService struct {
	DB *gorm.DB
}

func NewChatService(db *gorm.DB) *ChatService {
	return &ChatService{DB: db}
}

// CreateGroup creates the group and enrolls the owner as its first member in
// one transaction.
func (s *ChatService) CreateGroup(g *model.ChatGroup) error {
	return s.DB.Transaction(func(tx *gorm.DB) error {
		g.ChatGroupMembersCount = 1
		if err := tx.Create(g).Error; err != nil {
			return err
		}
		member := model.ChatGroupMember{
			ChatGroupMemberGroupID: g.ChatGroupID,
			ChatGroupMemberUserID:  g.ChatGroupOwnerID,
		}
		return tx.Create(&member).Error
	})
}

func (s *ChatService) findGroup(tx *gorm.DB, groupID uuid.UUID) (*model.ChatGroup, error) {
	var g model.ChatGroup
	err := tx.Where("chat_group_id = ?", groupID).First(&g).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrGroupNotFound
	}
	if err != nil {
		return nil, err
	}
	return &g, nil
}

// Join adds a user to a group. Joining twice is a no-op success and never
// bumps the member counter twice.
func (s *ChatService) Join(groupID, userID uuid.UUID) error {
	return s.DB.Transaction(func(tx *gorm.DB) error {
		if _, err := s.findGroup(tx, groupID); err != nil {
			return err
		}

		// ON CONFLICT DO NOTHING so a duplicate join never aborts the
		// transaction on postgres
		member := model.ChatGroupMember{
			ChatGroupMemberGroupID: groupID,
			ChatGroupMemberUserID:  userID,
		}
		res := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&member)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return nil
		}

		return tx.Model(&model.ChatGroup{}).
			Where("chat_group_id = ?", groupID).
			UpdateColumn("chat_group_members_count", gorm.Expr("chat_group_members_count + 1")).Error
	})
}

// Leave removes a user's membership. The owner cannot leave their own group.
func (s *ChatService) Leave(groupID, userID uuid.UUID) error {
	return s.DB.Transaction(func(tx *gorm.DB) error {
		g, err := s.findGroup(tx, groupID)
		if err != nil {
			return err
		}
		if g.ChatGroupOwnerID == userID {
			return ErrOwnerCannotLeave
		}

		res := tx.Where("chat_group_member_group_id = ? AND chat_group_member_user_id = ?", groupID, userID).
			Delete(&model.ChatGroupMember{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrNotMember
		}

		return tx.Model(&model.ChatGroup{}).
			Where("chat_group_id = ? AND chat_group_members_count > 0", groupID).
			UpdateColumn("chat_group_members_count", gorm.Expr("chat_group_members_count - 1")).Error
	})
}

// DeleteGroup removes the group, its memberships and its history. Owner only.
func (s *ChatService) DeleteGroup(groupID, userID uuid.UUID) error {
	return s.DB.Transaction(func(tx *gorm.DB) error {
		g, err := s.findGroup(tx, groupID)
		if err != nil {
			return err
		}
		if g.ChatGroupOwnerID != userID {
			return ErrNotGroupOwner
		}

		if err := tx.Where("chat_message_group_id = ?", groupID).Delete(&model.ChatMessage{}).Error; err != nil {
			return err
		}
		if err := tx.Where("chat_group_member_group_id = ?", groupID).Delete(&model.ChatGroupMember{}).Error; err != nil {
			return err
		}
		return tx.Delete(&model.ChatGroup{}, "chat_group_id = ?", groupID).Error
	})
}

// IsMember reports whether the user belongs to the group.
func (s *ChatService) IsMember(groupID, userID uuid.UUID) (bool, error) {
	var count int64
	err := s.DB.Model(&model.ChatGroupMember{}).
		Where("chat_group_member_group_id = ? AND chat_group_member_user_id = ?", groupID, userID).
		Count(&count).Error
	return count > 0, err
}

// ListMyGroups pages through the groups the user belongs to, newest first.
func (s *ChatService) ListMyGroups(userID uuid.UUID, page, perPage int) ([]model.ChatGroup, int64, error) {
	base := s.DB.Model(&model.ChatGroup{}).
		Joins("JOIN chat_group_members ON chat_group_member_group_id = chat_group_id").
		Where("chat_group_member_user_id = ?", userID)

	var total int64
	if err := base.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var groups []model.ChatGroup
	err := base.
		Order("chat_group_created_at DESC").
		Offset((page - 1) * perPage).
		Limit(perPage).
		Find(&groups).Error
	return groups, total, err
}

// ListMessages pages through a group's history newest first. Members only.
func (s *ChatService) ListMessages(groupID, userID uuid.UUID, page, perPage int) ([]model.ChatMessage, int64, error) {
	if _, err := s.findGroup(s.DB, groupID); err != nil {
		return nil, 0, err
	}
	ok, err := s.IsMember(groupID, userID)
	if err != nil {
		return nil, 0, err
	}
	if !ok {
		return nil, 0, ErrNotMember
	}

	var total int64
	if err := s.DB.Model(&model.ChatMessage{}).
		Where("chat_message_group_id = ?", groupID).
		Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var msgs []model.ChatMessage
	err = s.DB.Preload("Sender").
		Where("chat_message_group_id = ?", groupID).
		Order("chat_message_created_at DESC").
		Offset((page - 1) * perPage).
		Limit(perPage).
		Find(&msgs).Error
	return msgs, total, err
}

// SendMessage appends one message to the group's history. The caller fans it
// out after the row is durable.
func (s *ChatService) SendMessage(msg *model.ChatMessage) (*model.ChatMessage, error) {
	if _, err := s.findGroup(s.DB, msg.ChatMessageGroupID); err != nil {
		return nil, err
	}
	ok, err := s.IsMember(msg.ChatMessageGroupID, msg.ChatMessageSenderID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrNotMember
	}

	if err := s.DB.Create(msg).Error; err != nil {
		return nil, err
	}
	if err := s.DB.Preload("Sender").
		Where("chat_message_id = ?", msg.ChatMessageID).
		First(msg).Error; err != nil {
		return nil, err
	}
	return msg, nil
}
