// Code generated by protoc-gen-go. DO NOT EDIT.
// versions:
// 	protoc-gen-go v1.36.10
// 	protoc        (unknown)
// source: availability/v1/availability.proto

package availabilityv1

import (
	protoreflect "google.golang.org/protobuf/reflect/protoreflect"
	protoimpl "google.golang.org/protobuf/runtime/protoimpl"
	reflect "reflect"
	sync "sync"
	unsafe "unsafe"
)

const (
	// Verify that this generated code is sufficiently up-to-date.
	_ = protoimpl.EnforceVersion(20 - protoimpl.MinVersion)
	// Verify that runtime/protoimpl is sufficiently up-to-date.
	_ = protoimpl.EnforceVersion(protoimpl.MaxVersion - 20)
)

type WeekAvailabilityRequest struct {
	state         protoimpl.MessageState `protogen:"open.v1"`
	ProviderId    string                 `protobuf:"bytes,1,opt,name=provider_id,json=providerId,proto3" json:"provider_id,omitempty"`
	WeekStart     string                 `protobuf:"bytes,2,opt,name=week_start,json=weekStart,proto3" json:"week_start,omitempty"`
	IncludeEmpty  bool                   `protobuf:"varint,3,opt,name=include_empty,json=includeEmpty,proto3" json:"include_empty,omitempty"`
	unknownFields protoimpl.UnknownFields
	sizeCache     protoimpl.SizeCache
}

func (x *WeekAvailabilityRequest) Reset() {
	*x = WeekAvailabilityRequest{}
	mi := &file_availability_v1_availability_proto_msgTypes[0]
	ms := protoimpl.X.MessageStateOf(protoimpl.Pointer(x))
	ms.StoreMessageInfo(mi)
}

func (x *WeekAvailabilityRequest) String() string {
	return protoimpl.X.MessageStringOf(x)
}

func (*WeekAvailabilityRequest) ProtoMessage() {}

func (x *WeekAvailabilityRequest) ProtoReflect() protoreflect.Message {
	mi := &file_availability_v1_availability_proto_msgTypes[0]
	if x != nil {
		ms := protoimpl.X.MessageStateOf(protoimpl.Pointer(x))
		if ms.LoadMessageInfo() == nil {
			ms.StoreMessageInfo(mi)
		}
		return ms
	}
	return mi.MessageOf(x)
}

// Deprecated: Use WeekAvailabilityRequest.ProtoReflect.Descriptor instead.
func (*WeekAvailabilityRequest) Descriptor() ([]byte, []int) {
	return file_availability_v1_availability_proto_rawDescGZIP(), []int{0}
}

func (x *WeekAvailabilityRequest) GetProviderId() string {
	if x != nil {
		return x.ProviderId
	}
	return ""
}

func (x *WeekAvailabilityRequest) GetWeekStart() string {
	if x != nil {
		return x.WeekStart
	}
	return ""
}

func (x *WeekAvailabilityRequest) GetIncludeEmpty() bool {
	if x != nil {
		return x.IncludeEmpty
	}
	return false
}

type WeekAvailabilityResponse struct {
	state         protoimpl.MessageState `protogen:"open.v1"`
	ProviderId    string                 `protobuf:"bytes,1,opt,name=provider_id,json=providerId,proto3" json:"provider_id,omitempty"`
	WeekStart     string                 `protobuf:"bytes,2,opt,name=week_start,json=weekStart,proto3" json:"week_start,omitempty"`
	Days          []*DayWindows          `protobuf:"bytes,3,rep,name=days,proto3" json:"days,omitempty"`
	unknownFields protoimpl.UnknownFields
	sizeCache     protoimpl.SizeCache
}

func (x *WeekAvailabilityResponse) Reset() {
	*x = WeekAvailabilityResponse{}
	mi := &file_availability_v1_availability_proto_msgTypes[1]
	ms := protoimpl.X.MessageStateOf(protoimpl.Pointer(x))
	ms.StoreMessageInfo(mi)
}

func (x *WeekAvailabilityResponse) String() string {
	return protoimpl.X.MessageStringOf(x)
}

func (*WeekAvailabilityResponse) ProtoMessage() {}

func (x *WeekAvailabilityResponse) ProtoReflect() protoreflect.Message {
	mi := &file_availability_v1_availability_proto_msgTypes[1]
	if x != nil {
		ms := protoimpl.X.MessageStateOf(protoimpl.Pointer(x))
		if ms.LoadMessageInfo() == nil {
			ms.StoreMessageInfo(mi)
		}
		return ms
	}
	return mi.MessageOf(x)
}

// Deprecated: Use WeekAvailabilityResponse.ProtoReflect.Descriptor instead.
func (*WeekAvailabilityResponse) Descriptor() ([]byte, []int) {
	return file_availability_v1_availability_proto_rawDescGZIP(), []int{1}
}

func (x *WeekAvailabilityResponse) GetProviderId() string {
	if x != nil {
		return x.ProviderId
	}
	return ""
}

func (x *WeekAvailabilityResponse) GetWeekStart() string {
	if x != nil {
		return x.WeekStart
	}
	return ""
}

func (x *WeekAvailabilityResponse) GetDays() []*DayWindows {
	if x != nil {
		return x.Days
	}
	return nil
}

type DayWindows struct {
	state         protoimpl.MessageState `protogen:"open.v1"`
	Date          string                 `protobuf:"bytes,1,opt,name=date,proto3" json:"date,omitempty"`
	Windows       []*TimeWindow          `protobuf:"bytes,2,rep,name=windows,proto3" json:"windows,omitempty"`
	unknownFields protoimpl.UnknownFields
	sizeCache     protoimpl.SizeCache
}

func (x *DayWindows) Reset() {
	*x = DayWindows{}
	mi := &file_availability_v1_availability_proto_msgTypes[2]
	ms := protoimpl.X.MessageStateOf(protoimpl.Pointer(x))
	ms.StoreMessageInfo(mi)
}

func (x *DayWindows) String() string {
	return protoimpl.X.MessageStringOf(x)
}

func (*DayWindows) ProtoMessage() {}

func (x *DayWindows) ProtoReflect() protoreflect.Message {
	mi := &file_availability_v1_availability_proto_msgTypes[2]
	if x != nil {
		ms := protoimpl.X.MessageStateOf(protoimpl.Pointer(x))
		if ms.LoadMessageInfo() == nil {
			ms.StoreMessageInfo(mi)
		}
		return ms
	}
	return mi.MessageOf(x)
}

// Deprecated: Use DayWindows.ProtoReflect.Descriptor instead.
func (*DayWindows) Descriptor() ([]byte, []int) {
	return file_availability_v1_availability_proto_rawDescGZIP(), []int{2}
}

func (x *DayWindows) GetDate() string {
	if x != nil {
		return x.Date
	}
	return ""
}

func (x *DayWindows) GetWindows() []*TimeWindow {
	if x != nil {
		return x.Windows
	}
	return nil
}

type TimeWindow struct {
	state         protoimpl.MessageState `protogen:"open.v1"`
	StartTime     string                 `protobuf:"bytes,1,opt,name=start_time,json=startTime,proto3" json:"start_time,omitempty"`
	EndTime       string                 `protobuf:"bytes,2,opt,name=end_time,json=endTime,proto3" json:"end_time,omitempty"`
	unknownFields protoimpl.UnknownFields
	sizeCache     protoimpl.SizeCache
}

func (x *TimeWindow) Reset() {
	*x = TimeWindow{}
	mi := &file_availability_v1_availability_proto_msgTypes[3]
	ms := protoimpl.X.MessageStateOf(protoimpl.Pointer(x))
	ms.StoreMessageInfo(mi)
}

func (x *TimeWindow) String() string {
	return protoimpl.X.MessageStringOf(x)
}

func (*TimeWindow) ProtoMessage() {}

func (x *TimeWindow) ProtoReflect() protoreflect.Message {
	mi := &file_availability_v1_availability_proto_msgTypes[3]
	if x != nil {
		ms := protoimpl.X.MessageStateOf(protoimpl.Pointer(x))
		if ms.LoadMessageInfo() == nil {
			ms.StoreMessageInfo(mi)
		}
		return ms
	}
	return mi.MessageOf(x)
}

// Deprecated: Use TimeWindow.ProtoReflect.Descriptor instead.
func (*TimeWindow) Descriptor() ([]byte, []int) {
	return file_availability_v1_availability_proto_rawDescGZIP(), []int{3}
}

func (x *TimeWindow) GetStartTime() string {
	if x != nil {
		return x.StartTime
	}
	return ""
}

func (x *TimeWindow) GetEndTime() string {
	if x != nil {
		return x.EndTime
	}
	return ""
}

var File_availability_v1_availability_proto protoreflect.FileDescriptor

const file_availability_v1_availability_proto_rawDesc = "" +
	"\n" +
	"\"availability/v1/availability.proto\x12\x0favailability.v1\"~\n" +
	"\x17WeekAvailabilityRequest\x12\x1f\n" +
	"\vprovider_id\x18\x01 \x01(\tR\n" +
	"providerId\x12\x1d\n" +
	"\n" +
	"week_start\x18\x02 \x01(\tR\tweekStart\x12#\n" +
	"\rinclude_empty\x18\x03 \x01(\bR\fincludeEmpty\"\x8b\x01\n" +
	"\x18WeekAvailabilityResponse\x12\x1f\n" +
	"\vprovider_id\x18\x01 \x01(\tR\n" +
	"providerId\x12\x1d\n" +
	"\n" +
	"week_start\x18\x02 \x01(\tR\tweekStart\x12/\n" +
	"\x04days\x18\x03 \x03(\v2\x1b.availability.v1.DayWindowsR\x04days\"W\n" +
	"\n" +
	"DayWindows\x12\x12\n" +
	"\x04date\x18\x01 \x01(\tR\x04date\x125\n" +
	"\awindows\x18\x02 \x03(\v2\x1b.availability.v1.TimeWindowR\awindows\"F\n" +
	"\n" +
	"TimeWindow\x12\x1d\n" +
	"\n" +
	"start_time\x18\x01 \x01(\tR\tstartTime\x12\x19\n" +
	"\bend_time\x18\x02 \x01(\tR\aendTime2\x81\x01\n" +
	"\x13AvailabilityService\x12j\n" +
	"\x13GetWeekAvailability\x12(.availability.v1.WeekAvailabilityRequest\x1a).availability.v1.WeekAvailabilityResponseBPZNgithub.com/md-rashed-zaman/openhours/protos/gen/availability/v1;availabilityv1b\x06proto3"

var (
	file_availability_v1_availability_proto_rawDescOnce sync.Once
	file_availability_v1_availability_proto_rawDescData []byte
)

func file_availability_v1_availability_proto_rawDescGZIP() []byte {
	file_availability_v1_availability_proto_rawDescOnce.Do(func() {
		file_availability_v1_availability_proto_rawDescData = protoimpl.X.CompressGZIP(unsafe.Slice(unsafe.StringData(file_availability_v1_availability_proto_rawDesc), len(file_availability_v1_availability_proto_rawDesc)))
	})
	return file_availability_v1_availability_proto_rawDescData
}

var file_availability_v1_availability_proto_msgTypes = make([]protoimpl.MessageInfo, 4)
var file_availability_v1_availability_proto_goTypes = []any{
	(*WeekAvailabilityRequest)(nil),  // 0: availability.v1.WeekAvailabilityRequest
	(*WeekAvailabilityResponse)(nil), // 1: availability.v1.WeekAvailabilityResponse
	(*DayWindows)(nil),               // 2: availability.v1.DayWindows
	(*TimeWindow)(nil),               // 3: availability.v1.TimeWindow
}
var file_availability_v1_availability_proto_depIdxs = []int32{
	2, // 0: availability.v1.WeekAvailabilityResponse.days:type_name -> availability.v1.DayWindows
	3, // 1: availability.v1.DayWindows.windows:type_name -> availability.v1.TimeWindow
	0, // 2: availability.v1.AvailabilityService.GetWeekAvailability:input_type -> availability.v1.WeekAvailabilityRequest
	1, // 3: availability.v1.AvailabilityService.GetWeekAvailability:output_type -> availability.v1.WeekAvailabilityResponse
	3, // [3:4] is the sub-list for method output_type
	2, // [2:3] is the sub-list for method input_type
	2, // [2:2] is the sub-list for extension type_name
	2, // [2:2] is the sub-list for extension extendee
	0, // [0:2] is the sub-list for field type_name
}

func init() { file_availability_v1_availability_proto_init() }
func file_availability_v1_availability_proto_init() {
	if File_availability_v1_availability_proto != nil {
		return
	}
	type x struct{}
	out := protoimpl.TypeBuilder{
		File: protoimpl.DescBuilder{
			GoPackagePath: reflect.TypeOf(x{}).PkgPath(),
			RawDescriptor: unsafe.Slice(unsafe.StringData(file_availability_v1_availability_proto_rawDesc), len(file_availability_v1_availability_proto_rawDesc)),
			NumEnums:      0,
			NumMessages:   4,
			NumExtensions: 0,
			NumServices:   1,
		},
		GoTypes:           file_availability_v1_availability_proto_goTypes,
		DependencyIndexes: file_availability_v1_availability_proto_depIdxs,
		MessageInfos:      file_availability_v1_availability_proto_msgTypes,
	}.Build()
	File_availability_v1_availability_proto = out.File
	file_availability_v1_availability_proto_goTypes = nil
	file_availability_v1_availability_proto_depIdxs = nil
}
