package attendance

import "context"

type Service interface {
	CheckIn(ctx context.Context, req CheckInRequest) (AttendanceResponse, error)
	CheckOut(ctx context.Context, req CheckOutRequest) (AttendanceResponse, error)
	Record(ctx context.Context, req RecordRequest) (AttendanceResponse, error)
	List(ctx context.Context, filter Filter) (ListResponse, error)
}
