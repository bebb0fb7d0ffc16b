package mapper

import (
	"encoding/json"

	"ai-investigator-be/internal/entity"
	"ai-investigator-be/internal/model"
)

type MessageMapper struct{}

func NewMessageMapper() *MessageMapper {
	return &MessageMapper{}
}

func (m *MessageMapper) ToEntity(msg *model.Message) *entity.Message {
	if msg == nil {
		return nil
	}

	var meta entity.MessageMetadata
	if len(msg.Metadata) > 0 {
		_ = json.Unmarshal(msg.Metadata, &meta)
	}

	return &entity.Message{
		Id:        msg.Id,
		SessionId: msg.SessionId,
		Role:      msg.Role,
		Content:   msg.Content,
		Metadata:  meta,
		CreatedAt: msg.CreatedAt,
		UpdatedAt: msg.UpdatedAt,
	}
}

func (m *MessageMapper) ToModel(msg *entity.Message) *model.Message {
	if msg == nil {
		return nil
	}

	meta, _ := json.Marshal(msg.Metadata)

	return &model.Message{
		Id:        msg.Id,
		SessionId: msg.SessionId,
		Role:      msg.Role,
		Content:   msg.Content,
		Metadata:  meta,
		CreatedAt: msg.CreatedAt,
		UpdatedAt: msg.UpdatedAt,
	}
}

func (m *MessageMapper) ToEntities(msgs []*model.Message) []*entity.Message {
	out := make([]*entity.Message, 0, len(msgs))
	for _, msg := range msgs {
		out = append(out, m.ToEntity(msg))
	}
	return out
}

func (m *MessageMapper) ToModels(msgs []*entity.Message) []*model.Message {
	out := make([]*model.Message, 0, len(msgs))
	for _, msg := range msgs {
		out = append(out, m.ToModel(msg))
	}
	return out
}
