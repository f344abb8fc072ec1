// Code generated by protoc-gen-go. DO NOT EDIT.
// versions:
// 	protoc-gen-go v1.36.10
// 	protoc        (unknown)
// source: agent.proto

package agent

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

type ObserveRequest struct {
	state        protoimpl.MessageState `protogen:"open.v1"`
	TournamentId string                 `protobuf:"bytes,1,opt,name=tournament_id,json=tournamentId,proto3" json:"tournament_id,omitempty"`
	Player       string                 `protobuf:"bytes,2,opt,name=player,proto3" json:"player,omitempty"`
	Round        int32                  `protobuf:"varint,3,opt,name=round,proto3" json:"round,omitempty"`
	Rounds       int32                  `protobuf:"varint,4,opt,name=rounds,proto3" json:"rounds,omitempty"`
	// Combined match log for the round just played.
	MatchLog string `protobuf:"bytes,5,opt,name=match_log,json=matchLog,proto3" json:"match_log,omitempty"`
	// Absolute path of the player's checked-out working tree.
	Workdir string `protobuf:"bytes,6,opt,name=workdir,proto3" json:"workdir,omitempty"`
	// Opponent name -> read-only working tree path. Populated only when the
	// tournament runs in transparent mode.
	OpponentDirs  map[string]string `protobuf:"bytes,7,rep,name=opponent_dirs,json=opponentDirs,proto3" json:"opponent_dirs,omitempty" protobuf_key:"bytes,1,opt,name=key" protobuf_val:"bytes,2,opt,name=value"`
	Model         string            `protobuf:"bytes,8,opt,name=model,proto3" json:"model,omitempty"`
	unknownFields protoimpl.UnknownFields
	sizeCache     protoimpl.SizeCache
}

func (x *ObserveRequest) Reset() {
	*x = ObserveRequest{}
	mi := &file_agent_proto_msgTypes[0]
	ms := protoimpl.X.MessageStateOf(protoimpl.Pointer(x))
	ms.StoreMessageInfo(mi)
}

func (x *ObserveRequest) String() string {
	return protoimpl.X.MessageStringOf(x)
}

func (*ObserveRequest) ProtoMessage() {}

func (x *ObserveRequest) ProtoReflect() protoreflect.Message {
	mi := &file_agent_proto_msgTypes[0]
	if x != nil {
		ms := protoimpl.X.MessageStateOf(protoimpl.Pointer(x))
		if ms.LoadMessageInfo() == nil {
			ms.StoreMessageInfo(mi)
		}
		return ms
	}
	return mi.MessageOf(x)
}

// Deprecated: Use ObserveRequest.ProtoReflect.Descriptor instead.
func (*ObserveRequest) Descriptor() ([]byte, []int) {
	return file_agent_proto_rawDescGZIP(), []int{0}
}

func (x *ObserveRequest) GetTournamentId() string {
	if x != nil {
		return x.TournamentId
	}
	return ""
}

func (x *ObserveRequest) GetPlayer() string {
	if x != nil {
		return x.Player
	}
	return ""
}

func (x *ObserveRequest) GetRound() int32 {
	if x != nil {
		return x.Round
	}
	return 0
}

func (x *ObserveRequest) GetRounds() int32 {
	if x != nil {
		return x.Rounds
	}
	return 0
}

func (x *ObserveRequest) GetMatchLog() string {
	if x != nil {
		return x.MatchLog
	}
	return ""
}

func (x *ObserveRequest) GetWorkdir() string {
	if x != nil {
		return x.Workdir
	}
	return ""
}

func (x *ObserveRequest) GetOpponentDirs() map[string]string {
	if x != nil {
		return x.OpponentDirs
	}
	return nil
}

func (x *ObserveRequest) GetModel() string {
	if x != nil {
		return x.Model
	}
	return ""
}

type ObserveResponse struct {
	state protoimpl.MessageState `protogen:"open.v1"`
	// Unified diff against the workdir tree. Empty means no change.
	Patch         []byte  `protobuf:"bytes,1,opt,name=patch,proto3" json:"patch,omitempty"`
	Calls         int32   `protobuf:"varint,2,opt,name=calls,proto3" json:"calls,omitempty"`
	CostUsd       float64 `protobuf:"fixed64,3,opt,name=cost_usd,json=costUsd,proto3" json:"cost_usd,omitempty"`
	ExitStatus    string  `protobuf:"bytes,4,opt,name=exit_status,json=exitStatus,proto3" json:"exit_status,omitempty"`
	unknownFields protoimpl.UnknownFields
	sizeCache     protoimpl.SizeCache
}

func (x *ObserveResponse) Reset() {
	*x = ObserveResponse{}
	mi := &file_agent_proto_msgTypes[1]
	ms := protoimpl.X.MessageStateOf(protoimpl.Pointer(x))
	ms.StoreMessageInfo(mi)
}

func (x *ObserveResponse) String() string {
	return protoimpl.X.MessageStringOf(x)
}

func (*ObserveResponse) ProtoMessage() {}

func (x *ObserveResponse) ProtoReflect() protoreflect.Message {
	mi := &file_agent_proto_msgTypes[1]
	if x != nil {
		ms := protoimpl.X.MessageStateOf(protoimpl.Pointer(x))
		if ms.LoadMessageInfo() == nil {
			ms.StoreMessageInfo(mi)
		}
		return ms
	}
	return mi.MessageOf(x)
}

// Deprecated: Use ObserveResponse.ProtoReflect.Descriptor instead.
func (*ObserveResponse) Descriptor() ([]byte, []int) {
	return file_agent_proto_rawDescGZIP(), []int{1}
}

func (x *ObserveResponse) GetPatch() []byte {
	if x != nil {
		return x.Patch
	}
	return nil
}

func (x *ObserveResponse) GetCalls() int32 {
	if x != nil {
		return x.Calls
	}
	return 0
}

func (x *ObserveResponse) GetCostUsd() float64 {
	if x != nil {
		return x.CostUsd
	}
	return 0
}

func (x *ObserveResponse) GetExitStatus() string {
	if x != nil {
		return x.ExitStatus
	}
	return ""
}

var File_agent_proto protoreflect.FileDescriptor

const file_agent_proto_rawDesc = "" +
	"\n" +
	"\vagent.proto\x12\x05agent\"\xd7\x02\n" +
	"\x0eObserveRequest\x12#\n" +
	"\rtournament_id\x18\x01 \x01(\tR\ftournamentId\x12\x16\n" +
	"\x06player\x18\x02 \x01(\tR\x06player\x12\x14\n" +
	"\x05round\x18\x03 \x01(\x05R\x05round\x12\x16\n" +
	"\x06rounds\x18\x04 \x01(\x05R\x06rounds\x12\x1b\n" +
	"\tmatch_log\x18\x05 \x01(\tR\bmatchLog\x12\x18\n" +
	"\aworkdir\x18\x06 \x01(\tR\aworkdir\x12L\n" +
	"\ropponent_dirs\x18\a \x03(\v2'.agent.ObserveRequest.OpponentDirsEntryR\fopponentDirs\x12\x14\n" +
	"\x05model\x18\b \x01(\tR\x05model\x1a?\n" +
	"\x11OpponentDirsEntry\x12\x10\n" +
	"\x03key\x18\x01 \x01(\tR\x03key\x12\x14\n" +
	"\x05value\x18\x02 \x01(\tR\x05value:\x028\x01\"y\n" +
	"\x0fObserveResponse\x12\x14\n" +
	"\x05patch\x18\x01 \x01(\fR\x05patch\x12\x14\n" +
	"\x05calls\x18\x02 \x01(\x05R\x05calls\x12\x19\n" +
	"\bcost_usd\x18\x03 \x01(\x01R\acostUsd\x12\x1f\n" +
	"\vexit_status\x18\x04 \x01(\tR\n" +
	"exitStatus2H\n" +
	"\fAgentService\x128\n" +
	"\aObserve\x12\x15.agent.ObserveRequest\x1a\x16.agent.ObserveResponseB:Z8github.com/danielpatrickdp/codeclash/go-engine/gen/agentb\x06proto3"

var (
	file_agent_proto_rawDescOnce sync.Once
	file_agent_proto_rawDescData []byte
)

func file_agent_proto_rawDescGZIP() []byte {
	file_agent_proto_rawDescOnce.Do(func() {
		file_agent_proto_rawDescData = protoimpl.X.CompressGZIP(unsafe.Slice(unsafe.StringData(file_agent_proto_rawDesc), len(file_agent_proto_rawDesc)))
	})
	return file_agent_proto_rawDescData
}

var file_agent_proto_msgTypes = make([]protoimpl.MessageInfo, 3)
var file_agent_proto_goTypes = []any{
	(*ObserveRequest)(nil),  // 0: agent.ObserveRequest
	(*ObserveResponse)(nil), // 1: agent.ObserveResponse
	nil,                     // 2: agent.ObserveRequest.OpponentDirsEntry
}
var file_agent_proto_depIdxs = []int32{
	2, // 0: agent.ObserveRequest.opponent_dirs:type_name -> agent.ObserveRequest.OpponentDirsEntry
	0, // 1: agent.AgentService.Observe:input_type -> agent.ObserveRequest
	1, // 2: agent.AgentService.Observe:output_type -> agent.ObserveResponse
	2, // [2:3] is the sub-list for method output_type
	1, // [1:2] is the sub-list for method input_type
	1, // [1:1] is the sub-list for extension type_name
	1, // [1:1] is the sub-list for extension extendee
	0, // [0:1] is the sub-list for field type_name
}

func init() { file_agent_proto_init() }
func file_agent_proto_init() {
	if File_agent_proto != nil {
		return
	}
	type x struct{}
	out := protoimpl.TypeBuilder{
		File: protoimpl.DescBuilder{
			GoPackagePath: reflect.TypeOf(x{}).PkgPath(),
			RawDescriptor: unsafe.Slice(unsafe.StringData(file_agent_proto_rawDesc), len(file_agent_proto_rawDesc)),
			NumEnums:      0,
			NumMessages:   3,
			NumExtensions: 0,
			NumServices:   1,
		},
		GoTypes:           file_agent_proto_goTypes,
		DependencyIndexes: file_agent_proto_depIdxs,
		MessageInfos:      file_agent_proto_msgTypes,
	}.Build()
	File_agent_proto = out.File
	file_agent_proto_goTypes = nil
	file_agent_proto_depIdxs = nil
}
