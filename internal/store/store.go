// Package store owns the single in-memory task/tag dataset every view
// derives from. It is refreshed by whole-collection replacement after each
// successful mutation; it never talks to the network itself.
package store

import (
	"github.com/sirupsen/logrus"

	"taskdeck/internal/models"
)

// TaskStore is the authoritative client-side copy of the user's tasks and tags
type TaskStore struct {
	tasks []models.Task
	tags  []models.Tag
	byID  map[int64]int // task id -> index into tasks
}

// NewTaskStore returns an empty store
func NewTaskStore() *TaskStore {
	return &TaskStore{byID: make(map[int64]int)}
}

// ReplaceAll swaps in a fresh task collection and rebuilds the id index.
// Tasks referencing tags absent from the tag collection are logged as
// integrity errors; rendering treats those references as absent.
func (s *TaskStore) ReplaceAll(tasks []models.Task) {
	s.tasks = tasks
	s.byID = make(map[int64]int, len(tasks))
	for i, t := range tasks {
		s.byID[t.ID] = i
	}
	s.checkIntegrity()
}

// ReplaceAllTags swaps in a fresh tag collection
func (s *TaskStore) ReplaceAllTags(tags []models.Tag) {
	s.tags = tags
	s.checkIntegrity()
}

func (s *TaskStore) checkIntegrity() {
	if len(s.tags) == 0 && len(s.tasks) == 0 {
		return
	}
	known := make(map[int64]bool, len(s.tags))
	for _, tag := range s.tags {
		known[tag.ID] = true
	}
	for _, task := range s.tasks {
		for _, tag := range task.Tags {
			if !known[tag.ID] {
				logrus.WithFields(logrus.Fields{
					"task_id": task.ID,
					"tag_id":  tag.ID,
				}).Warn("task references unknown tag")
			}
		}
	}
}

// Tasks returns the current task collection. Callers must not mutate it.
func (s *TaskStore) Tasks() []models.Task {
	return s.tasks
}

// Tags returns the current tag collection. Callers must not mutate it.
func (s *TaskStore) Tags() []models.Tag {
	return s.tags
}

// FindByID looks a task up by server id
func (s *TaskStore) FindByID(id int64) (models.Task, bool) {
	i, ok := s.byID[id]
	if !ok {
		return models.Task{}, false
	}
	return s.tasks[i], true
}

// FindTagByName looks a tag up by exact name
func (s *TaskStore) FindTagByName(name string) (models.Tag, bool) {
	for _, tag := range s.tags {
		if tag.Name == name {
			return tag, true
		}
	}
	return models.Tag{}, false
}

// TasksWithTag returns the tasks carrying the given tag, in store order.
// Tag membership is fully loaded, so this never needs a round trip.
func (s *TaskStore) TasksWithTag(tagID int64) []models.Task {
	var out []models.Task
	for _, task := range s.tasks {
		for _, tag := range task.Tags {
			if tag.ID == tagID {
				out = append(out, task)
				break
			}
		}
	}
	return out
}

// TagUsageCounts maps tag id to the number of current tasks carrying it
func (s *TaskStore) TagUsageCounts() map[int64]int {
	counts := make(map[int64]int)
	for _, task := range s.tasks {
		for _, tag := range task.Tags {
			counts[tag.ID]++
		}
	}
	return counts
}

// UsedTags returns the tags with at least one task, in tag-collection order
func (s *TaskStore) UsedTags() []models.Tag {
	counts := s.TagUsageCounts()
	var out []models.Tag
	for _, tag := range s.tags {
		if counts[tag.ID] > 0 {
			out = append(out, tag)
		}
	}
	return out
}
