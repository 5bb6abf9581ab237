package guides

import "errors"

var (
	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("guides: invalid input data")

	// ErrBookingNotFound возвращается, когда бронирование не найдено
	ErrBookingNotFound = errors.New("guides: booking not found")

	// ErrBookingNotConfirmed возвращается, когда бронирование еще не оплачено
	// или уже закрыто: гид подбирается только после оплаты
	ErrBookingNotConfirmed = errors.New("guides: booking is not confirmed")

	// ErrGuideNotApplicable возвращается для бронирований без направления
	// и активностей, которым гид не положен
	ErrGuideNotApplicable = errors.New("guides: booking does not take a guide")

	// ErrGuideAlreadyAssigned возвращается, когда у бронирования уже есть гид
	ErrGuideAlreadyAssigned = errors.New("guides: booking already has a guide assigned")

	// ErrGuideNotFound возвращается, когда профиль гида не найден
	ErrGuideNotFound = errors.New("guides: guide not found")

	// ErrGuideNotEligible возвращается, когда гид не подходит бронированию
	// по направлению и экспертизе
	ErrGuideNotEligible = errors.New("guides: guide is not eligible for booking")

	// ErrGuideConflict возвращается, когда гида успело забрать
	// конкурирующее назначение
	ErrGuideConflict = errors.New("guides: guide was taken by a concurrent assignment")

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("guides: internal error")
)
