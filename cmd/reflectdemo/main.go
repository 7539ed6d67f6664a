// Command reflectdemo exercises the full descriptor-ingestion-through-Any
// pipeline end to end: it parses a small .proto source, registers it,
// constructs and populates a dynamic message, round-trips it through the
// wire codec, converts a Timestamp field through its well-known-type
// handler, and packs/unpacks the message as a google.protobuf.Any.
//
// It is a demonstration harness, not a library entry point — callers who
// embed this module use the internal packages directly.
package main

import (
	"context"
	"flag"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/datahopper/protoreflect/internal/codec"
	"github.com/datahopper/protoreflect/internal/dynamicmsg"
	"github.com/datahopper/protoreflect/internal/factory"
	"github.com/datahopper/protoreflect/internal/obs"
	"github.com/datahopper/protoreflect/internal/protoio"
	"github.com/datahopper/protoreflect/internal/typeregistry"
	"github.com/datahopper/protoreflect/internal/wkt"
	"github.com/datahopper/protoreflect/internal/wktregistry"
)

const orderProto = `
syntax = "proto3";
package demo.v1;

import "google/protobuf/timestamp.proto";

message Order {
  string id = 1;
  int32 quantity = 2;
  google.protobuf.Timestamp placed_at = 3;
}
`

func main() {
	timeout := flag.Duration("timeout", 5*time.Second, "time budget for the demo run")
	flag.Parse()

	logger := obs.NewLogger()
	logger.Info().Msg("starting protoreflect demo run")

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	runCtx, runCancel := context.WithTimeout(ctx, *timeout)
	defer runCancel()

	if err := run(runCtx); err != nil {
		logger.Fatal().Err(err).Msg("demo run failed")
	}
	logger.Info().Msg("demo run completed")
}

func run(ctx context.Context) error {
	files, err := protoio.ParseFiles(map[string]string{"demo/order.proto": orderProto})
	if err != nil {
		return fmt.Errorf("parse .proto sources: %w", err)
	}

	registry := typeregistry.New()
	if err := registry.RegisterFile(wkt.File()); err != nil {
		return fmt.Errorf("register well-known types: %w", err)
	}
	for _, f := range files {
		if err := registry.RegisterFile(f); err != nil {
			return fmt.Errorf("register file %s: %w", f.Name(), err)
		}
	}

	orderDesc, ok := registry.FindMessage("demo.v1.Order")
	if !ok {
		return fmt.Errorf("demo.v1.Order not found after registration")
	}

	order := factory.New(orderDesc)
	if err := order.Set("id", "order-001"); err != nil {
		return fmt.Errorf("set id: %w", err)
	}
	if err := order.Set("quantity", int32(7)); err != nil {
		return fmt.Errorf("set quantity: %w", err)
	}

	ts, err := wkt.TimestampHandler.CreateDynamic(wkt.TimestampFromTime(time.Now()))
	if err != nil {
		return fmt.Errorf("build timestamp message: %w", err)
	}
	if err := order.Set("placed_at", ts); err != nil {
		return fmt.Errorf("set placed_at: %w", err)
	}

	wireCodec := codec.NewProtoCodec(registry)
	wire, err := wireCodec.Serialize(order)
	if err != nil {
		return fmt.Errorf("serialize order: %w", err)
	}
	roundTripped, err := wireCodec.Deserialize(wire, orderDesc)
	if err != nil {
		return fmt.Errorf("deserialize order: %w", err)
	}

	wkts := wktregistry.Default()
	specialized, err := wkts.CreateSpecialized(mustField(roundTripped, "placed_at"), "google.protobuf.Timestamp")
	if err != nil {
		return fmt.Errorf("convert placed_at: %w", err)
	}
	tv := specialized.(wkt.TimestampValue)
	fmt.Printf("order %s placed at %s (wire size %d bytes)\n",
		mustString(roundTripped, "id"), tv.Display(), len(wire))

	packed, err := wkt.Pack(roundTripped, wireCodec)
	if err != nil {
		return fmt.Errorf("pack Any: %w", err)
	}
	unpacked, err := packed.UnpackUsing(registry, wireCodec)
	if err != nil {
		return fmt.Errorf("unpack Any: %w", err)
	}
	fmt.Printf("round-tripped through Any: id=%s quantity=%v\n",
		mustString(unpacked, "id"), mustValue(unpacked, "quantity"))

	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
		return nil
	}
}

func mustField(msg *dynamicmsg.Message, name string) *dynamicmsg.Message {
	v, err := msg.Get(name)
	if err != nil {
		panic(err)
	}
	return v.(*dynamicmsg.Message)
}

func mustString(msg *dynamicmsg.Message, name string) string {
	v, err := msg.Get(name)
	if err != nil {
		panic(err)
	}
	s, _ := v.(string)
	return s
}

func mustValue(msg *dynamicmsg.Message, name string) interface{} {
	v, err := msg.Get(name)
	if err != nil {
		panic(err)
	}
	return v
}
