package store

// WithUserID filters by the "user_id" column.
func WithUserID(id string) Option {
	return WithCondition("user_id", id)
}

// WithExternalID filters by the "external_id" column.
func WithExternalID(id string) Option {
	return WithCondition("external_id", id)
}

// WithPhase filters by the "phase" column.
func WithPhase(phase int) Option {
	return WithCondition("phase", phase)
}

// WithStatus filters by the "status" column.
func WithStatus(status string) Option {
	return WithCondition("status", status)
}

// WithURL filters by the "url" column.
func WithURL(url string) Option {
	return WithCondition("url", url)
}

// WithImageID filters by the "image_id" column.
func WithImageID(id string) Option {
	return WithCondition("image_id", id)
}

// WithImageIDIn filters by the "image_id" column using IN.
func WithImageIDIn(ids []string) Option {
	return WithConditionIn("image_id", ids)
}

// WithIDNotIn excludes rows whose "id" is in the given set.
func WithIDNotIn(ids []string) Option {
	if len(ids) == 0 {
		return func(q Query) Query { return q }
	}
	return WithWhere("id NOT IN ?", ids)
}

// WithActive filters rows whose "active" column is true.
func WithActive() Option {
	return WithCondition("active", true)
}

// WithEmbeddable filters pool images that carry a usable embedding.
func WithEmbeddable() Option {
	return WithCondition("has_embedding", true)
}
