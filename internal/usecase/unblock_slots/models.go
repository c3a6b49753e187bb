package unblock_slots

// Request модель запроса на снятие блокировок
type Request struct {
	UserID   int64   `validate:"gt=0"`
	BlockIDs []int64 `validate:"required,min=1,max=100,unique,dive,gt=0"`
}

// Response результат снятия блокировок
type Response struct {
	Removed []int64 // ID удаленных блокировок в порядке запроса
}
