package outbox

const taskCreatedSchema = `{
  "type": "object",
  "title": "TaskCreated",
  "properties": {
    "task_id": {"type": "string"},
    "user_id": {"type": "string"},
    "project_id": {"type": "string"},
    "title": {"type": "string"},
    "priority": {"type": "string"},
    "due_date": {"type": "string", "format": "date-time"},
    "created_at": {"type": "string", "format": "date-time"}
  },
  "required": ["task_id", "user_id", "project_id", "title", "priority", "created_at"],
  "additionalProperties": false
}`

const taskCompletedSchema = `{
  "type": "object",
  "title": "TaskCompleted",
  "properties": {
    "task_id": {"type": "string"},
    "user_id": {"type": "string"},
    "project_id": {"type": "string"},
    "completed_at": {"type": "string", "format": "date-time"},
    "recurring": {"type": "boolean"}
  },
  "required": ["task_id", "user_id", "project_id", "completed_at", "recurring"],
  "additionalProperties": false
}`

const habitLoggedSchema = `{
  "type": "object",
  "title": "HabitLogged",
  "properties": {
    "habit_id": {"type": "string"},
    "user_id": {"type": "string"},
    "completed_at": {"type": "string", "format": "date-time"},
    "value": {"type": "integer"}
  },
  "required": ["habit_id", "user_id", "completed_at", "value"],
  "additionalProperties": false
}`
